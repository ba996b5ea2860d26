package repository

import (
	"errors"
	"time"

	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
// 状态写入统一走条件更新：WHERE 带上期望的当前状态，返回受影响行数，
// 0 行表示前置条件已失效（并发写入者抢先），由调用方转换为冲突错误。
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	GetByOrderNumberAndUser(orderNumber string, userID uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListByStore(filter OrderListFilter) ([]models.Order, int64, error)
	ListAvailableForPartners(page, pageSize int) ([]models.Order, int64, error)
	ListByPartner(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListItems(orderID uint) ([]models.OrderItem, error)
	CountByOrderNumber(orderNumber string) (int64, error)
	UpdateStatusIf(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error)
	ClaimForDelivery(id uint, partnerID uint) (int64, error)
	MarkDeliveredByPartner(id uint, partnerID uint, deliveredAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.Preload("Items").Preload("Address").Preload("Store")
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户订单详情
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumberAndUser 获取用户订单详情（按订单号）
func (r *GormOrderRepository) GetByOrderNumberAndUser(orderNumber string, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).Where("order_number = ? AND user_id = ?", orderNumber, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListItems 获取订单项
func (r *GormOrderRepository) ListItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByOrderNumber 统计订单号数量（用于生成时查重）
func (r *GormOrderRepository) CountByOrderNumber(orderNumber string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByUser 获取顾客订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number "+likeOperator(r.db)+" ?", "%"+filter.OrderNumber+"%")
	}
	return r.finishList(query, filter.Page, filter.PageSize)
}

// ListByStore 获取门店订单队列
func (r *GormOrderRepository) ListByStore(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return r.finishList(query, filter.Page, filter.PageSize)
}

// ListAvailableForPartners 获取待接单订单（ready 且未指派，按创建时间倒序）
func (r *GormOrderRepository) ListAvailableForPartners(page, pageSize int) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).
		Where("status = ? AND delivery_partner_id IS NULL", constants.OrderStatusReady)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var orders []models.Order
	if err := r.withDetail(query).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByPartner 获取配送员订单列表
func (r *GormOrderRepository) ListByPartner(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("delivery_partner_id = ?", filter.PartnerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return r.finishList(query, filter.Page, filter.PageSize)
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.StoreID != 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return r.finishList(query, filter.Page, filter.PageSize)
}

func (r *GormOrderRepository) finishList(query *gorm.DB, page, pageSize int) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var orders []models.Order
	if err := r.withDetail(query).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatusIf 条件更新订单状态
func (r *GormOrderRepository) UpdateStatusIf(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ClaimForDelivery 配送员抢单：仅当订单处于 ready 且未指派时生效
func (r *GormOrderRepository) ClaimForDelivery(id uint, partnerID uint) (int64, error) {
	if id == 0 || partnerID == 0 {
		return 0, errors.New("invalid claim params")
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_partner_id IS NULL", id, constants.OrderStatusReady).
		Updates(map[string]interface{}{
			"status":              constants.OrderStatusPickedUp,
			"delivery_partner_id": partnerID,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkDeliveredByPartner 送达：仅指派配送员可从 picked_up 推进
func (r *GormOrderRepository) MarkDeliveredByPartner(id uint, partnerID uint, deliveredAt time.Time) (int64, error) {
	if id == 0 || partnerID == 0 {
		return 0, errors.New("invalid deliver params")
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_partner_id = ?", id, constants.OrderStatusPickedUp, partnerID).
		Updates(map[string]interface{}{
			"status":               constants.OrderStatusDelivered,
			"actual_delivery_time": deliveredAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
