package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 订单创建后仅通过状态流转与配送员指派发生变更，取消是终态而非删除
type Order struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNumber           string         `gorm:"uniqueIndex;not null" json:"order_number"`                    // 订单编号（ZC + 9 位数字）
	UserID                uint           `gorm:"index;not null" json:"user_id"`                               // 顾客ID
	StoreID               uint           `gorm:"index;not null" json:"store_id"`                              // 门店ID
	AddressID             uint           `gorm:"not null" json:"address_id"`                                  // 地址快照ID
	Status                string         `gorm:"index;not null" json:"status"`                                // 订单状态
	Currency              string         `gorm:"not null;default:'USD'" json:"currency"`                      // 币种
	Subtotal              Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`       // 商品小计
	TaxAmount             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`     // 税额
	DeliveryFee           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`   // 配送费
	TipAmount             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tip_amount"`     // 小费
	TotalAmount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`   // 应付总额
	DeliveryPartnerID     *uint          `gorm:"index" json:"delivery_partner_id,omitempty"`                  // 配送员ID（接单后写入）
	SpecialInstructions   string         `gorm:"type:varchar(500)" json:"special_instructions,omitempty"`     // 备注
	CancelReason          string         `gorm:"type:varchar(64)" json:"cancel_reason,omitempty"`             // 取消原因
	EstimatedDeliveryTime *time.Time     `json:"estimated_delivery_time,omitempty"`                           // 预计送达时间
	ActualDeliveryTime    *time.Time     `json:"actual_delivery_time,omitempty"`                              // 实际送达时间
	CancelledAt           *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                         // 取消时间
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"` // 地址快照
	Store   *Store      `gorm:"foreignKey:StoreID" json:"store,omitempty"`     // 门店信息
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
