package partner

import (
	"errors"
	"strconv"

	handlershared "github.com/zipcart/internal/http/handlers/shared"
	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "订单参数错误", nil)
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

// GetAvailableOrders 可接订单（ready 且未被认领）
func (h *Handler) GetAvailableOrders(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListAvailableOrders(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取可接订单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ClaimOrder 抢单：ready 订单绑定配送员并进入 picked_up
// 条件更新保证同一订单只有一个配送员能抢到。
func (h *Handler) ClaimOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.ClaimOrder(uid, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderAlreadyClaimed):
			respondError(c, response.CodeConflict, "订单已被其他配送员接走", nil)
		case errors.Is(err, service.ErrOrderConflict):
			respondError(c, response.CodeConflict, "订单当前不可接", nil)
		case errors.Is(err, service.ErrPartnerUnavailable):
			respondError(c, response.CodeBadRequest, "请先上线再接单", nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "配送员档案不存在", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		default:
			respondError(c, response.CodeInternal, "接单失败", err)
		}
		return
	}
	response.Success(c, order)
}

// GetActiveOrders 配送中的订单
func (h *Handler) GetActiveOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListActiveForPartner(uid, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			respondError(c, response.CodeNotFound, "配送员档案不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取配送中订单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrderHistory 历史配送单
func (h *Handler) GetOrderHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListHistoryForPartner(uid, repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			respondError(c, response.CodeNotFound, "配送员档案不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取历史订单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// MarkDelivered 送达：picked_up → delivered，同步核销库存预占
func (h *Handler) MarkDelivered(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.MarkDelivered(uid, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAssignedPartner):
			respondError(c, response.CodeForbidden, "该订单不是由你配送", nil)
		case errors.Is(err, service.ErrOrderConflict):
			respondError(c, response.CodeConflict, "订单状态不允许送达", nil)
		case errors.Is(err, service.ErrInventoryConflict):
			respondError(c, response.CodeConflict, "库存核销失败，请重试", nil)
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "配送员档案不存在", nil)
		default:
			respondError(c, response.CodeInternal, "确认送达失败", err)
		}
		return
	}
	response.Success(c, order)
}
