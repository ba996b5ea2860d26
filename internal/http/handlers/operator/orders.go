package operator

import (
	"errors"
	"strconv"

	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

// respondTransitionError 状态流转错误映射：非法流转与并发冲突都返回 409。
func respondTransitionError(c *gin.Context, err error, fallbackMsg string) {
	var transitionErr *service.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		response.ErrorWithData(c, response.CodeConflict, "订单状态不允许该操作", gin.H{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrOrderConflict):
		respondError(c, response.CodeConflict, "订单已被并发修改，请刷新后重试", nil)
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "订单不存在", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, response.CodeForbidden, "无权操作该订单", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "订单参数错误", nil)
		return 0, false
	}
	return uint(id), true
}

// GetMyStore 运营名下门店
func (h *Handler) GetMyStore(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	store, err := h.StoreService.GetByOperator(uid)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			respondError(c, response.CodeNotFound, "名下没有门店", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取门店失败", err)
		return
	}
	response.Success(c, store)
}

// GetOrderQueue 门店订单队列
func (h *Handler) GetOrderQueue(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListStoreQueue(uid, repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, response.CodeForbidden, "名下没有门店", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单队列失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrder 订单详情（限本门店）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForOperator(uid, orderID)
	if err != nil {
		respondTransitionError(c, err, "获取订单失败")
		return
	}
	response.Success(c, order)
}

func (h *Handler) advanceOrder(c *gin.Context, advance func(operatorID, orderID uint) (*models.Order, error), failMsg string) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := advance(uid, orderID)
	if err != nil {
		respondTransitionError(c, err, failMsg)
		return
	}
	response.Success(c, order)
}

// ConfirmOrder 确认订单（pending → confirmed）
func (h *Handler) ConfirmOrder(c *gin.Context) {
	h.advanceOrder(c, h.OrderService.ConfirmOrder, "确认订单失败")
}

// StartPreparing 开始备货（confirmed → preparing）
func (h *Handler) StartPreparing(c *gin.Context) {
	h.advanceOrder(c, h.OrderService.StartPreparing, "开始备货失败")
}

// MarkReady 备货完成（preparing → ready）
func (h *Handler) MarkReady(c *gin.Context) {
	h.advanceOrder(c, h.OrderService.MarkReady, "备货完成失败")
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder 取消订单（仅 pending），同时释放库存预占
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderService.CancelOrder(uid, orderID, req.Reason)
	if err != nil {
		respondTransitionError(c, err, "取消订单失败")
		return
	}
	response.Success(c, order)
}
