package models

import "time"

// Address 收货地址快照表
// 每个订单落库一条独立快照，不复用可变的个人资料地址
type Address struct {
	ID            uint      `gorm:"primarykey" json:"id"`           // 主键
	UserID        uint      `gorm:"index;not null" json:"user_id"`  // 用户ID
	StreetAddress string    `gorm:"not null" json:"street_address"` // 街道地址
	City          string    `gorm:"not null" json:"city"`           // 城市
	State         string    `gorm:"not null" json:"state"`          // 州/省
	ZipCode       string    `gorm:"type:varchar(16)" json:"zip_code"` // 邮编
	Label         string    `gorm:"type:varchar(32);default:'delivery'" json:"label"` // 地址标签
	Latitude      *float64  `json:"latitude,omitempty"`             // 纬度
	Longitude     *float64  `json:"longitude,omitempty"`            // 经度
	CreatedAt     time.Time `gorm:"index" json:"created_at"`        // 创建时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
