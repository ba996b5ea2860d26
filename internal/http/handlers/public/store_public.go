package public

import (
	"errors"
	"strconv"

	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetStores 营业中门店列表
func (h *Handler) GetStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	stores, total, err := h.StoreService.ListPublic(repository.StoreListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取门店列表失败", err)
		return
	}

	response.SuccessWithPage(c, stores, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetNearbyStores 按坐标筛选可配送门店
func (h *Handler) GetNearbyStores(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondError(c, response.CodeBadRequest, "坐标参数错误", nil)
		return
	}

	stores, err := h.StoreService.ListNearby(lat, lng)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "坐标参数错误", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取门店列表失败", err)
		return
	}
	response.Success(c, gin.H{"stores": stores})
}

// GetStoreBySlug 门店详情
func (h *Handler) GetStoreBySlug(c *gin.Context) {
	store, err := h.StoreService.GetBySlug(c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			respondError(c, response.CodeNotFound, "门店不存在", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		default:
			respondError(c, response.CodeInternal, "获取门店失败", err)
		}
		return
	}
	response.Success(c, store)
}
