package admin

import (
	"errors"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类写入请求
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:      r.Name,
		Slug:      r.Slug,
		Icon:      r.Icon,
		SortOrder: r.SortOrder,
		IsActive:  r.IsActive,
	}
}

func respondCategoryWriteError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "分类不存在", nil)
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, response.CodeConflict, "分类下仍有商品，不能删除", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "slug 已被占用", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetAdminCategories 分类列表（含停用）
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListForAdmin()
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类列表失败", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondCategoryWriteError(c, err, "创建分类失败")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		respondCategoryWriteError(c, err, "更新分类失败")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类，仍挂有商品的分类会被拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondCategoryWriteError(c, err, "删除分类失败")
		return
	}
	response.Success(c, nil)
}
