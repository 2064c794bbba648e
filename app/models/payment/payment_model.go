// Package payment 支付台账模型
//
// 每一次支付尝试对应一行记录，以调用方生成的全局唯一 reference 为键。
// 记录在跳转网关之前先落库，保证任何外部状态变更之前台账一定有据可查。
// 记录只存不删，状态只由核验与履约两个环节推进。
package payment

import (
	"time"

	"shine/app/models"
)

// Payment 支付台账模型
type Payment struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference string `gorm:"type:varchar(64);uniqueIndex" json:"reference"`       // 全局唯一支付参考号，调用方生成
	UserID    string `gorm:"type:varchar(36);index;default:null" json:"user_id"` // 可为空，游客支付
	Provider  string `gorm:"type:varchar(20)" json:"provider"`
	Amount    int64  `gorm:"not null" json:"amount"` // 最小货币单位，整数
	Currency  string `gorm:"type:varchar(3)" json:"currency"`
	Status    string `gorm:"type:varchar(20);index" json:"status"`
	Metadata  JSON   `gorm:"type:json" json:"metadata"` // 订单类型判别字段 + 履约所需的领域字段

	// 履约回链，只设置一次（条件更新保证），不能加唯一索引：
	// 三个订单表各自自增，不同领域的订单 ID 会重号
	FulfillmentID   *uint64 `gorm:"index" json:"fulfillment_id"`
	FulfillmentType string  `gorm:"type:varchar(20)" json:"fulfillment_type"`

	PaidAt        *time.Time `json:"paid_at"`
	FlaggedReason string     `gorm:"type:varchar(255)" json:"flagged_reason"` // 运营对账标记

	models.CommonTimestampsField
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
