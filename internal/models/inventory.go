package models

import "time"

// Inventory 门店库存表
// quantity 为在库量，reserved_quantity 为未完成订单占用量
// 可售量 = quantity - reserved_quantity，任何写入都不允许使其为负
type Inventory struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                          // 主键
	ProductID        uint      `gorm:"not null;uniqueIndex:idx_inventory_store_product" json:"product_id"` // 商品ID
	StoreID          uint      `gorm:"not null;uniqueIndex:idx_inventory_store_product" json:"store_id"`   // 门店ID
	Quantity         int       `gorm:"not null;default:0" json:"quantity"`                            // 在库数量
	ReservedQuantity int       `gorm:"not null;default:0" json:"reserved_quantity"`                   // 占用数量
	ReorderLevel     int       `gorm:"not null;default:10" json:"reorder_level"`                      // 补货阈值
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}

// Available 可售数量
func (i Inventory) Available() int {
	return i.Quantity - i.ReservedQuantity
}
