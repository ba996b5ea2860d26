package operator

import (
	"errors"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// resolveStore 库存操作统一先落到运营名下门店
func (h *Handler) resolveStore(c *gin.Context) (*models.Store, bool) {
	uid, ok := getUserID(c)
	if !ok {
		return nil, false
	}
	store, err := h.StoreService.GetByOperator(uid)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			respondError(c, response.CodeNotFound, "名下没有门店", nil)
			return nil, false
		}
		respondError(c, response.CodeInternal, "获取门店失败", err)
		return nil, false
	}
	return store, true
}

func respondInventoryError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrInventoryNotFound):
		respondError(c, response.CodeNotFound, "库存记录不存在", nil)
	case errors.Is(err, service.ErrInventoryConflict):
		respondError(c, response.CodeConflict, "库存不足以完成该调整", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// GetInventory 门店库存列表
func (h *Handler) GetInventory(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}
	items, err := h.InventoryService.ListForStore(store.ID)
	if err != nil {
		respondInventoryError(c, err, "获取库存失败")
		return
	}
	response.Success(c, items)
}

// GetLowStock 低库存列表
func (h *Handler) GetLowStock(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}
	items, err := h.InventoryService.ListLowStock(store.ID)
	if err != nil {
		respondInventoryError(c, err, "获取低库存失败")
		return
	}
	response.Success(c, items)
}

// UpsertInventoryRequest 上架/覆盖库存请求
type UpsertInventoryRequest struct {
	ProductID    uint `json:"product_id" binding:"required"`
	Quantity     int  `json:"quantity"`
	ReorderLevel int  `json:"reorder_level"`
}

// UpsertInventory 商品上架到门店货架，或覆盖既有库存行
func (h *Handler) UpsertInventory(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}
	var req UpsertInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	item, err := h.InventoryService.UpsertItem(store.ID, req.ProductID, req.Quantity, req.ReorderLevel)
	if err != nil {
		respondInventoryError(c, err, "保存库存失败")
		return
	}
	response.Success(c, item)
}

// AdjustInventoryRequest 库存调整请求，delta 进货为正、盘亏为负
type AdjustInventoryRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Delta     int  `json:"delta" binding:"required"`
}

// AdjustInventory 调整在库数量
func (h *Handler) AdjustInventory(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}
	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	item, err := h.InventoryService.AdjustQuantity(store.ID, req.ProductID, req.Delta)
	if err != nil {
		respondInventoryError(c, err, "调整库存失败")
		return
	}
	response.Success(c, item)
}

// RestockRequest 补货请求
type RestockRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// Restock 补货
func (h *Handler) Restock(c *gin.Context) {
	store, ok := h.resolveStore(c)
	if !ok {
		return
	}
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	item, err := h.InventoryService.Restock(store.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondInventoryError(c, err, "补货失败")
		return
	}
	response.Success(c, item)
}
