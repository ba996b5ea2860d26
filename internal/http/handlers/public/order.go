package public

import (
	"strconv"

	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	StreetAddress       string       `json:"street_address" binding:"required"`
	City                string       `json:"city" binding:"required"`
	State               string       `json:"state" binding:"required"`
	ZipCode             string       `json:"zip_code" binding:"required"`
	Label               string       `json:"label"`
	Latitude            *float64     `json:"latitude"`
	Longitude           *float64     `json:"longitude"`
	TipAmount           models.Money `json:"tip_amount"`
	SpecialInstructions string       `json:"special_instructions"`
}

// PlaceOrder 从购物车下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.PlaceOrder(uid, service.PlaceOrderInput{
		StreetAddress:       req.StreetAddress,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		Label:               req.Label,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		TipAmount:           req.TipAmount,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrders 当前用户订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersForUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "订单参数错误", nil)
		return 0, false
	}
	return uint(id), true
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForUser(uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "获取订单失败")
		return
	}
	response.Success(c, order)
}

// GetOrderByNumber 按订单号查询订单
func (h *Handler) GetOrderByNumber(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByNumberForUser(uid, c.Param("order_number"))
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "获取订单失败")
		return
	}
	response.Success(c, order)
}

// GetOrderTracking 订单追踪：订单状态加配送员位置
func (h *Handler) GetOrderTracking(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	tracking, err := h.OrderService.GetOrderTracking(uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderReadErrorRules, response.CodeInternal, "获取订单追踪失败")
		return
	}
	response.Success(c, tracking)
}
