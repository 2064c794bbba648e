// Package appointment 美容预约履约模型
package appointment

import (
	"time"

	"shine/app/models"
	"shine/app/models/payment"
)

// Appointment 美容预约模型，由幂等履约器在支付成功后创建，至多一条
type Appointment struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex" json:"order_number"` // 确认后告知客户的订单号
	PaymentID   uint64 `gorm:"uniqueIndex" json:"payment_id"`                    // 支付回链，幂等闸门

	UserID       string `gorm:"type:varchar(36);index" json:"user_id"`
	SpecialistID string `gorm:"type:varchar(36);index" json:"specialist_id"`

	// 预约明细：选中的服务项（service_type 解析后的快照）
	Services payment.JSON `gorm:"type:json" json:"services"`
	Amount   int64        `json:"amount"` // 线上实收金额，最小货币单位

	Date    string `gorm:"type:varchar(10)" json:"date"` // YYYY-MM-DD
	Time    string `gorm:"type:varchar(5)" json:"time"`  // HH:MM
	Address string `gorm:"type:varchar(255)" json:"address"`

	Status      string     `gorm:"type:varchar(20);index" json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Appointment) TableName() string {
	return "appointments"
}
