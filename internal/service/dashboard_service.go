package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/repository"
)

// DashboardService 管理端仪表盘服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

const (
	dashboardDaysDefault = 7
	dashboardDaysMax     = 90
)

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	Days              int    `json:"days"`
	OrdersTotal       int64  `json:"orders_total"`
	DeliveredOrders   int64  `json:"delivered_orders"`
	CancelledOrders   int64  `json:"cancelled_orders"`
	ActiveOrders      int64  `json:"active_orders"`
	RevenueDelivered  string `json:"revenue_delivered"`
	Currency          string `json:"currency"`
	NewUsers          int64  `json:"new_users"`
	ActiveStores      int64  `json:"active_stores"`
	AvailablePartners int64  `json:"available_partners"`
	LowStockItems     int64  `json:"low_stock_items"`
}

// OrderTrendPoint 订单趋势点
type OrderTrendPoint struct {
	Day             string `json:"day"`
	OrdersTotal     int64  `json:"orders_total"`
	OrdersDelivered int64  `json:"orders_delivered"`
}

// StatusBreakdownItem 状态分布项
type StatusBreakdownItem struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// ProductRankingItem 商品排行项
type ProductRankingItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Orders      int64  `json:"orders"`
	Quantity    int64  `json:"quantity"`
	Amount      string `json:"amount"`
}

// StoreRankingItem 门店排行项
type StoreRankingItem struct {
	StoreID   uint   `json:"store_id"`
	StoreName string `json:"store_name"`
	Orders    int64  `json:"orders"`
	Amount    string `json:"amount"`
}

func resolveDashboardRange(days int) (time.Time, time.Time, int) {
	if days <= 0 {
		days = dashboardDaysDefault
	}
	if days > dashboardDaysMax {
		days = dashboardDaysMax
	}
	now := time.Now()
	endAt := now.Add(time.Minute)
	startAt := now.AddDate(0, 0, -days)
	return startAt, endAt, days
}

func formatAmount(value float64) string {
	return decimal.NewFromFloat(value).Round(2).StringFixed(2)
}

// GetOverview 总览统计
func (s *DashboardService) GetOverview(days int) (*DashboardOverview, error) {
	startAt, endAt, days := resolveDashboardRange(days)
	row, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.dashboardRepo.CountLowStock()
	if err != nil {
		return nil, err
	}
	currency := row.Currency
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &DashboardOverview{
		Days:              days,
		OrdersTotal:       row.OrdersTotal,
		DeliveredOrders:   row.DeliveredOrders,
		CancelledOrders:   row.CancelledOrders,
		ActiveOrders:      row.ActiveOrders,
		RevenueDelivered:  formatAmount(row.RevenueDelivered),
		Currency:          currency,
		NewUsers:          row.NewUsers,
		ActiveStores:      row.ActiveStores,
		AvailablePartners: row.AvailablePartners,
		LowStockItems:     lowStock,
	}, nil
}

// GetOrderTrends 按日订单趋势
func (s *DashboardService) GetOrderTrends(days int) ([]OrderTrendPoint, error) {
	startAt, endAt, _ := resolveDashboardRange(days)
	rows, err := s.dashboardRepo.GetOrderTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	result := make([]OrderTrendPoint, 0, len(rows))
	for _, row := range rows {
		result = append(result, OrderTrendPoint{
			Day:             row.Day,
			OrdersTotal:     row.OrdersTotal,
			OrdersDelivered: row.OrdersDelivered,
		})
	}
	return result, nil
}

// GetStatusBreakdown 订单状态分布
func (s *DashboardService) GetStatusBreakdown(days int) ([]StatusBreakdownItem, error) {
	startAt, endAt, _ := resolveDashboardRange(days)
	rows, err := s.dashboardRepo.GetStatusBreakdown(startAt, endAt)
	if err != nil {
		return nil, err
	}
	result := make([]StatusBreakdownItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, StatusBreakdownItem{Status: row.Status, Total: row.Total})
	}
	return result, nil
}

// GetTopProducts 已送达订单的商品排行
func (s *DashboardService) GetTopProducts(days, limit int) ([]ProductRankingItem, error) {
	startAt, endAt, _ := resolveDashboardRange(days)
	rows, err := s.dashboardRepo.GetTopProducts(startAt, endAt, limit)
	if err != nil {
		return nil, err
	}
	result := make([]ProductRankingItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, ProductRankingItem{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Orders:      row.Orders,
			Quantity:    row.Quantity,
			Amount:      formatAmount(row.Amount),
		})
	}
	return result, nil
}

// GetTopStores 门店排行
func (s *DashboardService) GetTopStores(days, limit int) ([]StoreRankingItem, error) {
	startAt, endAt, _ := resolveDashboardRange(days)
	rows, err := s.dashboardRepo.GetTopStores(startAt, endAt, limit)
	if err != nil {
		return nil, err
	}
	result := make([]StoreRankingItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, StoreRankingItem{
			StoreID:   row.StoreID,
			StoreName: row.StoreName,
			Orders:    row.Orders,
			Amount:    formatAmount(row.Amount),
		})
	}
	return result, nil
}
