package public

import (
	"errors"
	"strconv"

	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetNotifications 当前用户通知列表
func (h *Handler) GetNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	onlyUnread := c.Query("unread") == "true"

	notifications, total, err := h.NotificationService.List(uid, page, pageSize, onlyUnread)
	if err != nil {
		respondError(c, response.CodeInternal, "获取通知失败", err)
		return
	}

	response.SuccessWithPage(c, notifications, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "通知参数错误", nil)
		return
	}
	if err := h.NotificationService.MarkRead(uid, uint(id)); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			respondError(c, response.CodeNotFound, "通知不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "标记已读失败", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}

// GetUnreadCount 未读通知数
func (h *Handler) GetUnreadCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.CountUnread(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取未读数失败", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}
