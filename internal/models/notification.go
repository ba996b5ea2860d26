package models

import "time"

// Notification 站内通知表
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`                    // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`           // 接收用户ID
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`         // 关联订单ID
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`   // 通知类型
	Title     string    `gorm:"not null" json:"title"`                   // 标题
	Body      string    `json:"body"`                                    // 正文
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`      // 是否已读
	CreatedAt time.Time `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
