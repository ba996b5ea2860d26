package repository

import (
	"fmt"
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetStatusBreakdown(startAt, endAt time.Time) ([]DashboardStatusRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
	GetTopStores(startAt, endAt time.Time, limit int) ([]DashboardStoreRankingRow, error)
	CountLowStock() (int64, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal       int64
	DeliveredOrders   int64
	CancelledOrders   int64
	ActiveOrders      int64
	RevenueDelivered  float64
	NewUsers          int64
	ActiveStores      int64
	AvailablePartners int64
	Currency          string
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day             string
	OrdersTotal     int64
	OrdersDelivered int64
}

// DashboardStatusRow 状态分布统计
type DashboardStatusRow struct {
	Status string
	Total  int64
}

// DashboardProductRankingRow 商品排行原始行
type DashboardProductRankingRow struct {
	ProductID   uint
	ProductName string
	Orders      int64
	Quantity    int64
	Amount      float64
}

// DashboardStoreRankingRow 门店排行原始行
type DashboardStoreRankingRow struct {
	StoreID   uint
	StoreName string
	Orders    int64
	Amount    float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func activeOrderStatuses() []string {
	return []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusPickedUp,
	}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusDelivered).Count(&result.DeliveredOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCancelled).Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status IN ?", activeOrderStatuses()).Count(&result.ActiveOrders).Error; err != nil {
		return result, err
	}

	if err := orderBase().
		Where("status = ?", constants.OrderStatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.RevenueDelivered).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Store{}).
		Where("is_active = ?", true).
		Count(&result.ActiveStores).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.DeliveryPartner{}).
		Where("is_available = ?", true).
		Count(&result.AvailablePartners).Error; err != nil {
		return result, err
	}

	_ = r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND currency <> ''", startAt, endAt).
		Order("id DESC").
		Limit(1).
		Pluck("currency", &result.Currency).Error

	return result, nil
}

// GetOrderTrends 获取订单趋势
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type deliveredRow struct {
		Day       string
		Delivered int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var delivereds []deliveredRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as delivered", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, constants.OrderStatusDelivered).
		Group(dayExpr).
		Order("day asc").
		Scan(&delivereds).Error; err != nil {
		return nil, err
	}

	deliveredMap := make(map[string]int64, len(delivereds))
	for _, item := range delivereds {
		deliveredMap[item.Day] = item.Delivered
	}

	result := make([]DashboardOrderTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardOrderTrendRow{
			Day:             item.Day,
			OrdersTotal:     item.Total,
			OrdersDelivered: deliveredMap[item.Day],
		})
	}
	return result, nil
}

// GetStatusBreakdown 获取状态分布
func (r *GormDashboardRepository) GetStatusBreakdown(startAt, endAt time.Time) ([]DashboardStatusRow, error) {
	rows := make([]DashboardStatusRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) as total").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("status").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts 获取商品排行榜
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardProductRankingRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(`
			order_items.product_id as product_id,
			order_items.product_name as product_name,
			COUNT(DISTINCT order_items.order_id) as orders,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.total_price), 0) as amount
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status = ?", startAt, endAt, constants.OrderStatusDelivered).
		Group("order_items.product_id, order_items.product_name").
		Order("amount DESC, quantity DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopStores 获取门店排行榜
func (r *GormDashboardRepository) GetTopStores(startAt, endAt time.Time, limit int) ([]DashboardStoreRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardStoreRankingRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select(`
			orders.store_id as store_id,
			COALESCE(stores.name, '') as store_name,
			COUNT(*) as orders,
			COALESCE(SUM(CASE WHEN orders.status = 'delivered' THEN orders.total_amount ELSE 0 END), 0) as amount
		`).
		Joins("LEFT JOIN stores ON stores.id = orders.store_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", startAt, endAt).
		Group("orders.store_id, stores.name").
		Order("amount DESC, orders DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountLowStock 统计可售量触及补货阈值的库存行
func (r *GormDashboardRepository) CountLowStock() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Inventory{}).
		Where("quantity - reserved_quantity <= reorder_level").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
