package admin

import (
	"errors"
	"strconv"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/logger"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取用户列表失败", err)
		return
	}
	response.SuccessWithPage(c, users, pageOf(total, page, pageSize))
}

// BatchUpdateUserStatusRequest 批量启用/禁用请求
type BatchUpdateUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// BatchUpdateUserStatus 批量启用/禁用账号
// 禁用同时会使该用户存量 Token 失效。
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.UserAuthService.SetUsersStatus(req.UserIDs, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "请求参数错误", nil)
			return
		}
		respondError(c, response.CodeInternal, "更新用户状态失败", err)
		return
	}

	logger.Infow("admin_users_status_updated",
		"operator_admin_id", currentAdminID(c),
		"user_ids", req.UserIDs,
		"status", req.Status,
	)
	response.Success(c, gin.H{"updated": len(req.UserIDs)})
}

// CreateOperatorRequest 创建门店运营账号请求
type CreateOperatorRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// CreateOperator 创建门店运营账号
// 运营账号不开放自助注册，建好后可在门店上绑定。
func (h *Handler) CreateOperator(c *gin.Context) {
	var req CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.UserAuthService.CreateOperatorAccount(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeConflict, "邮箱已被注册", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		default:
			respondError(c, response.CodeInternal, "创建运营账号失败", err)
		}
		return
	}

	logger.Infow("admin_operator_created",
		"operator_admin_id", currentAdminID(c),
		"user_id", user.ID,
		"email", user.Email,
	)
	response.Success(c, user)
}
