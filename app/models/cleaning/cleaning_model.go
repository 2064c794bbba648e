// Package cleaning 保洁订单履约模型
package cleaning

import (
	"time"

	"shine/app/models"
)

// CleaningOrder 保洁订单模型
type CleaningOrder struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex" json:"order_number"`
	PaymentID   uint64 `gorm:"uniqueIndex" json:"payment_id"` // 支付回链，幂等闸门

	UserID       string `gorm:"type:varchar(36);index" json:"user_id"`
	SpecialistID string `gorm:"type:varchar(36);index" json:"specialist_id"`

	ServiceID       uint64 `gorm:"index" json:"service_id"`
	FullServiceCost int64  `json:"full_service_cost"` // 服务全价，与线上实收的优惠预约费不同
	BookingFee      int64  `json:"booking_fee"`       // 线上实收预约费，最小货币单位

	Date    string `gorm:"type:varchar(10)" json:"date"`
	Address string `gorm:"type:varchar(255)" json:"address"`

	Status      string     `gorm:"type:varchar(20);index" json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (CleaningOrder) TableName() string {
	return "cleaning_orders"
}
