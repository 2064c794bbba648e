// Package notification 站内通知模型
package notification

import (
	"time"

	"shine/app/models"
)

// Notification 通知记录，由队列 worker 落库
// 至少送达一次即可，重复通知只是展示层面的噪音，不构成正确性问题
type Notification struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID string `gorm:"type:varchar(36);index" json:"recipient_id"`
	Title       string `gorm:"type:varchar(100)" json:"title"`
	Message     string `gorm:"type:text" json:"message"`
	Type        string `gorm:"type:varchar(30);index" json:"type"`

	FulfillmentID   uint64 `gorm:"index" json:"fulfillment_id"`
	FulfillmentType string `gorm:"type:varchar(20)" json:"fulfillment_type"`
	ActionURL       string `gorm:"type:varchar(255)" json:"action_url"`

	ReadAt *time.Time `json:"read_at"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
