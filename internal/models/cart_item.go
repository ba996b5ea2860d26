package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项
// 同一购物车内商品唯一，且所有条目必须属于同一家门店
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                         // 主键
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`    // 用户ID
	StoreID   uint           `gorm:"not null;index" json:"store_id"`                               // 门店ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"` // 商品ID
	Name      string         `gorm:"not null" json:"name"`                                         // 商品名称快照
	UnitPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`      // 单价快照
	Quantity  int            `gorm:"not null" json:"quantity"`                                     // 数量（始终 >= 1）
	ImageURL  string         `gorm:"type:varchar(500)" json:"image_url"`                           // 商品图片快照
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
