package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/zipcart/internal/http/response"
	"github.com/zipcart/internal/repository"
	"github.com/zipcart/internal/service"

	"github.com/gin-gonic/gin"
)

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// GetAdminOrders 订单列表，可按状态、门店、订单号和时间段筛选
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	storeID, _ := strconv.ParseUint(c.Query("store_id"), 10, 64)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		StoreID:     uint(storeID),
		UserID:      uint(userID),
		OrderNumber: c.Query("order_number"),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}
	response.SuccessWithPage(c, orders, pageOf(total, page, pageSize))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "订单参数错误", nil)
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	response.Success(c, order)
}
