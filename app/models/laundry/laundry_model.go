// Package laundry 洗衣订单履约模型
package laundry

import (
	"time"

	"shine/app/models"
)

// LaundryOrder 洗衣订单模型
type LaundryOrder struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex" json:"order_number"`
	PaymentID   uint64 `gorm:"uniqueIndex" json:"payment_id"` // 支付回链，幂等闸门

	UserID       string  `gorm:"type:varchar(36);index" json:"user_id"`
	SpecialistID *string `gorm:"type:varchar(36);index;default:null" json:"specialist_id"` // 接单前为空

	EstimatedWeightKg int    `json:"estimated_weight_kg"`
	PriceTier         string `gorm:"type:varchar(20)" json:"price_tier"` // 由预估重量解析出的价格档位
	Amount            int64  `json:"amount"`                             // 线上实收预约费，最小货币单位

	PickupDate string `gorm:"type:varchar(10)" json:"pickup_date"`
	Address    string `gorm:"type:varchar(255)" json:"address"`

	Status string `gorm:"type:varchar(20);index" json:"status"`

	// 每个正向流转各自的时间戳
	PickupCompletedAt *time.Time `json:"pickup_completed_at"`
	WashingStartedAt  *time.Time `json:"washing_started_at"`
	ReadyAt           *time.Time `json:"ready_at"`
	OutForDeliveryAt  *time.Time `json:"out_for_delivery_at"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	CancelledAt       *time.Time `json:"cancelled_at"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (LaundryOrder) TableName() string {
	return "laundry_orders"
}
