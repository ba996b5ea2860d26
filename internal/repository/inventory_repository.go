package repository

import (
	"errors"

	"github.com/zipcart/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存数据访问接口
// 预占/释放/消耗全部是带守卫条件的单条 UPDATE，返回受影响行数，
// 0 行表示可售量不足或占用量对不上，由调用方决定回滚或报错。
type InventoryRepository interface {
	GetByStoreAndProduct(storeID, productID uint) (*models.Inventory, error)
	ListByStore(storeID uint) ([]models.Inventory, error)
	ListByStoreAndProducts(storeID uint, productIDs []uint) ([]models.Inventory, error)
	ListLowStock(storeID uint) ([]models.Inventory, error)
	Upsert(item *models.Inventory) error
	AdjustQuantity(storeID, productID uint, delta int) (int64, error)
	Reserve(storeID, productID uint, quantity int) (int64, error)
	Release(storeID, productID uint, quantity int) (int64, error)
	Consume(storeID, productID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// GetByStoreAndProduct 获取单条库存
func (r *GormInventoryRepository) GetByStoreAndProduct(storeID, productID uint) (*models.Inventory, error) {
	var item models.Inventory
	if err := r.db.Where("store_id = ? AND product_id = ?", storeID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByStore 获取门店全部库存
func (r *GormInventoryRepository) ListByStore(storeID uint) ([]models.Inventory, error) {
	var items []models.Inventory
	if err := r.db.Where("store_id = ?", storeID).Order("product_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByStoreAndProducts 批量获取库存
func (r *GormInventoryRepository) ListByStoreAndProducts(storeID uint, productIDs []uint) ([]models.Inventory, error) {
	if len(productIDs) == 0 {
		return []models.Inventory{}, nil
	}
	var items []models.Inventory
	if err := r.db.Where("store_id = ? AND product_id IN ?", storeID, productIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock 获取可售量不高于补货阈值的库存
func (r *GormInventoryRepository) ListLowStock(storeID uint) ([]models.Inventory, error) {
	var items []models.Inventory
	if err := r.db.Where("store_id = ? AND quantity - reserved_quantity <= reorder_level", storeID).
		Order("quantity - reserved_quantity asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert 创建或覆盖库存行
func (r *GormInventoryRepository) Upsert(item *models.Inventory) error {
	if item == nil {
		return nil
	}
	existing, err := r.GetByStoreAndProduct(item.StoreID, item.ProductID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(item).Error
	}
	return r.db.Model(existing).Updates(map[string]interface{}{
		"quantity":      item.Quantity,
		"reorder_level": item.ReorderLevel,
	}).Error
}

// AdjustQuantity 调整在库数量（进货为正、盘亏为负），不允许把可售量调成负数
func (r *GormInventoryRepository) AdjustQuantity(storeID, productID uint, delta int) (int64, error) {
	if storeID == 0 || productID == 0 || delta == 0 {
		return 0, errors.New("invalid inventory adjust params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("store_id = ? AND product_id = ? AND quantity + ? >= reserved_quantity", storeID, productID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Reserve 预占库存：仅当可售量足够时生效
func (r *GormInventoryRepository) Reserve(storeID, productID uint, quantity int) (int64, error) {
	if storeID == 0 || productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid inventory reserve params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("store_id = ? AND product_id = ? AND quantity - reserved_quantity >= ?", storeID, productID, quantity).
		Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Release 释放预占（订单取消）
func (r *GormInventoryRepository) Release(storeID, productID uint, quantity int) (int64, error) {
	if storeID == 0 || productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid inventory release params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("store_id = ? AND product_id = ? AND reserved_quantity >= ?", storeID, productID, quantity).
		Update("reserved_quantity", gorm.Expr("reserved_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Consume 消耗库存（订单送达后预占转出库）
func (r *GormInventoryRepository) Consume(storeID, productID uint, quantity int) (int64, error) {
	if storeID == 0 || productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid inventory consume params")
	}
	result := r.db.Model(&models.Inventory{}).
		Where("store_id = ? AND product_id = ? AND quantity >= ? AND reserved_quantity >= ?", storeID, productID, quantity, quantity).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", quantity),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
