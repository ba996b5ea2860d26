package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryPartner 配送员档案表
type DeliveryPartner struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                  // 主键
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`                   // 用户ID
	VehicleType     string         `gorm:"type:varchar(20);default:'bicycle'" json:"vehicle_type"` // 车辆类型
	IsAvailable     bool           `gorm:"default:false;index" json:"is_available"`               // 是否接单
	CurrentLat      *float64       `json:"current_lat,omitempty"`                                 // 当前纬度
	CurrentLng      *float64       `json:"current_lng,omitempty"`                                 // 当前经度
	Rating          float64        `gorm:"not null;default:5" json:"rating"`                      // 评分
	TotalDeliveries int            `gorm:"not null;default:0" json:"total_deliveries"`            // 累计配送单数
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (DeliveryPartner) TableName() string {
	return "delivery_partners"
}
