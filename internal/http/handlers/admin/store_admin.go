package admin

import (
	"errors"
	"strconv"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreRequest 门店写入请求
type StoreRequest struct {
	Name                string  `json:"name" binding:"required"`
	Slug                string  `json:"slug" binding:"required"`
	Type                string  `json:"type"`
	OperatorID          *uint   `json:"operator_id"`
	StreetAddress       string  `json:"street_address" binding:"required"`
	City                string  `json:"city" binding:"required"`
	State               string  `json:"state" binding:"required"`
	ZipCode             string  `json:"zip_code" binding:"required"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	DeliveryRadiusMiles float64 `json:"delivery_radius_miles"`
	OpensAt             string  `json:"opens_at"`
	ClosesAt            string  `json:"closes_at"`
	IsActive            bool    `json:"is_active"`
}

func (r StoreRequest) toInput() service.StoreInput {
	return service.StoreInput{
		Name:                r.Name,
		Slug:                r.Slug,
		Type:                r.Type,
		OperatorID:          r.OperatorID,
		StreetAddress:       r.StreetAddress,
		City:                r.City,
		State:               r.State,
		ZipCode:             r.ZipCode,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		DeliveryRadiusMiles: r.DeliveryRadiusMiles,
		OpensAt:             r.OpensAt,
		ClosesAt:            r.ClosesAt,
		IsActive:            r.IsActive,
	}
}

func respondStoreWriteError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		respondError(c, response.CodeNotFound, "门店不存在", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "slug 已被占用", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminStores 门店列表
func (h *Handler) GetAdminStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	stores, total, err := h.StoreService.ListForAdmin(repository.StoreListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取门店列表失败", err)
		return
	}
	response.SuccessWithPage(c, stores, pageOf(total, page, pageSize))
}

// CreateStore 创建门店
func (h *Handler) CreateStore(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	store, err := h.StoreService.Create(req.toInput())
	if err != nil {
		respondStoreWriteError(c, err, "创建门店失败")
		return
	}
	response.Success(c, store)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		return 0, false
	}
	return uint(id), true
}

// UpdateStore 更新门店
func (h *Handler) UpdateStore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	store, err := h.StoreService.Update(id, req.toInput())
	if err != nil {
		respondStoreWriteError(c, err, "更新门店失败")
		return
	}
	response.Success(c, store)
}

// DeleteStore 删除门店（软删除）
func (h *Handler) DeleteStore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.StoreService.Delete(id); err != nil {
		respondStoreWriteError(c, err, "删除门店失败")
		return
	}
	response.Success(c, nil)
}
