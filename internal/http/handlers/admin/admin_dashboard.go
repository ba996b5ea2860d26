package admin

import (
	"strconv"

	"github.com/zipcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

func parseDaysQuery(c *gin.Context) int {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	return days
}

func parseLimitQuery(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return limit
}

// GetDashboardOverview 仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.DashboardService.GetOverview(parseDaysQuery(c))
	if err != nil {
		respondError(c, response.CodeInternal, "获取仪表盘数据失败", err)
		return
	}
	response.Success(c, overview)
}

// GetDashboardTrends 按日订单趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	trends, err := h.DashboardService.GetOrderTrends(parseDaysQuery(c))
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单趋势失败", err)
		return
	}
	response.Success(c, trends)
}

// GetDashboardStatusBreakdown 订单状态分布
func (h *Handler) GetDashboardStatusBreakdown(c *gin.Context) {
	breakdown, err := h.DashboardService.GetStatusBreakdown(parseDaysQuery(c))
	if err != nil {
		respondError(c, response.CodeInternal, "获取状态分布失败", err)
		return
	}
	response.Success(c, breakdown)
}

// GetDashboardTopProducts 商品销量排行
func (h *Handler) GetDashboardTopProducts(c *gin.Context) {
	items, err := h.DashboardService.GetTopProducts(parseDaysQuery(c), parseLimitQuery(c))
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品排行失败", err)
		return
	}
	response.Success(c, items)
}

// GetDashboardTopStores 门店排行
func (h *Handler) GetDashboardTopStores(c *gin.Context) {
	items, err := h.DashboardService.GetTopStores(parseDaysQuery(c), parseLimitQuery(c))
	if err != nil {
		respondError(c, response.CodeInternal, "获取门店排行失败", err)
		return
	}
	response.Success(c, items)
}
