package admin

import (
	"errors"
	"strconv"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品写入请求
type ProductRequest struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	BasePrice   models.Money `json:"base_price"`
	Unit        string       `json:"unit"`
	ImageURL    string       `json:"image_url"`
	Barcode     string       `json:"barcode"`
	IsTaxable   *bool        `json:"is_taxable"`
	IsActive    bool         `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	isTaxable := true
	if r.IsTaxable != nil {
		isTaxable = *r.IsTaxable
	}
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Unit:        r.Unit,
		ImageURL:    r.ImageURL,
		Barcode:     r.Barcode,
		IsTaxable:   isTaxable,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

func respondProductWriteError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "分类不存在", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "slug 已被占用", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminProducts 商品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.ProductService.ListForAdmin(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}
	response.SuccessWithPage(c, products, pageOf(total, page, pageSize))
}

// GetAdminProduct 商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondProductWriteError(c, err, "获取商品失败")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondProductWriteError(c, err, "创建商品失败")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondProductWriteError(c, err, "更新商品失败")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondProductWriteError(c, err, "删除商品失败")
		return
	}
	response.Success(c, nil)
}
