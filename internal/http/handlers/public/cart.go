package public

import (
	"errors"
	"strconv"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	StoreID   uint `json:"store_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 购物车数量更新请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func respondCartStockError(c *gin.Context, err error) bool {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithData(c, response.CodeConflict, "库存不足", gin.H{
			"shortages": stockErr.Shortages,
		})
		return true
	}
	return false
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取购物车失败", err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	cart, err := h.CartService.AddItem(service.AddItemInput{
		UserID:    uid,
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		if respondCartStockError(c, err) {
			return
		}
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "加入购物车失败")
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 更新购物车数量，数量小于等于 0 等同删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品参数错误", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	cart, err := h.CartService.UpdateQuantity(uid, uint(productID), req.Quantity)
	if err != nil {
		if respondCartStockError(c, err) {
			return
		}
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "更新购物车失败")
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品参数错误", nil)
		return
	}
	cart, err := h.CartService.RemoveItem(uid, uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "删除购物车项失败", err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(uid); err != nil {
		respondError(c, response.CodeInternal, "清空购物车失败", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
