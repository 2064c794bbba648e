// Package earning 专家收入台账模型
package earning

import (
	"shine/app/models"
)

// Earning 收入台账，每笔成功支付至多产生一条
// payment_id 上的唯一索引就是结算的幂等闸门
type Earning struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID    uint64 `gorm:"uniqueIndex" json:"payment_id"`
	SpecialistID string `gorm:"type:varchar(36);index" json:"specialist_id"`

	GrossAmount           int64 `json:"gross_amount"`            // 实收总额，最小货币单位
	PlatformFeeAmount     int64 `json:"platform_fee_amount"`     // 平台抽成
	NetAmount             int64 `json:"net_amount"`              // 专家净得，恒等于 gross - fee
	PlatformFeePercentage int64 `json:"platform_fee_percentage"` // 抽成比例（百分数）

	Status string `gorm:"type:varchar(20);index" json:"status"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Earning) TableName() string {
	return "earnings"
}
