package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 门店表
type Store struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                       // 主键
	Name                string         `gorm:"not null" json:"name"`                                       // 门店名称
	Slug                string         `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Type                string         `gorm:"type:varchar(32);not null;default:'dark_store'" json:"type"` // 门店类型（partner_store/dark_store/micro_fulfillment）
	OperatorID          *uint          `gorm:"index" json:"operator_id,omitempty"`                         // 运营用户ID
	StreetAddress       string         `json:"street_address"`                                             // 街道地址
	City                string         `json:"city"`                                                       // 城市
	State               string         `json:"state"`                                                      // 州/省
	ZipCode             string         `gorm:"type:varchar(16)" json:"zip_code"`                           // 邮编
	Latitude            float64        `json:"latitude"`                                                   // 纬度
	Longitude           float64        `json:"longitude"`                                                  // 经度
	DeliveryRadiusMiles float64        `gorm:"not null;default:3" json:"delivery_radius_miles"`            // 配送半径（英里）
	OpensAt             string         `gorm:"type:varchar(5);default:'08:00'" json:"opens_at"`            // 营业开始（HH:MM）
	ClosesAt            string         `gorm:"type:varchar(5);default:'22:00'" json:"closes_at"`           // 营业结束（HH:MM）
	IsActive            bool           `gorm:"default:true;index" json:"is_active"`                        // 是否营业
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
