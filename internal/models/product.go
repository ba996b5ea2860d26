package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（全门店共享目录，库存按门店独立记账）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                       // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                        // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                                    // 商品名称
	Description string         `json:"description"`                                             // 商品描述
	BasePrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"` // 基础价格
	Unit        string         `gorm:"type:varchar(20);default:'each'" json:"unit"`             // 计量单位
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`                      // 商品图片
	Barcode     string         `gorm:"type:varchar(64);index" json:"barcode"`                   // 条码
	IsTaxable   bool           `gorm:"default:true" json:"is_taxable"`                          // 是否计税
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                     // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                       // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
