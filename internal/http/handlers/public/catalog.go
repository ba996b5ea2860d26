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

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListPublic()
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类失败", err)
		return
	}
	response.Success(c, categories)
}

func parseStoreID(c *gin.Context) (uint, bool) {
	raw := c.Param("store_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "门店参数错误", nil)
		return 0, false
	}
	return uint(id), true
}

// GetStoreProducts 门店商品列表（带本店可售量）
func (h *Handler) GetStoreProducts(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.ProductService.ListForStore(storeID, repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: uint(categoryID),
		Search:     c.Query("search"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "请求参数错误", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetStoreProduct 门店商品详情
func (h *Handler) GetStoreProduct(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetBySlugForStore(storeID, c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		default:
			respondError(c, response.CodeInternal, "获取商品失败", err)
		}
		return
	}
	response.Success(c, product)
}
