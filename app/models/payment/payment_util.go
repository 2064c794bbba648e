package payment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/spf13/cast"
)

// Status 支付状态
type Status string

const (
	StatusPending   Status = "pending"   // 待支付
	StatusCompleted Status = "completed" // 已支付，终态，不可回退
	StatusFailed    Status = "failed"    // 支付失败
	StatusCanceled  Status = "canceled"  // 已取消
)

// OrderType 订单领域类型，metadata 中 type 字段的取值
type OrderType string

const (
	OrderTypeBeauty   OrderType = "beauty"   // 美容预约
	OrderTypeLaundry  OrderType = "laundry"  // 洗衣订单
	OrderTypeCleaning OrderType = "cleaning" // 保洁订单
)

// JSON 自定义JSON类型
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	return json.Unmarshal(bytes, j)
}

// Validate 验证支付记录
func (p *Payment) Validate() error {
	if p.Reference == "" {
		return errors.New("reference is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if p.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// OrderType 从 metadata 中读取订单领域类型
func (p *Payment) OrderType() OrderType {
	return OrderType(cast.ToString(p.Metadata["type"]))
}

// IsCompleted 检查支付是否成功
func (p *Payment) IsCompleted() bool {
	return p.Status == string(StatusCompleted)
}

// IsPending 检查是否待支付
func (p *Payment) IsPending() bool {
	return p.Status == string(StatusPending)
}

// IsLinked 检查履约回链是否已经写入
func (p *Payment) IsLinked() bool {
	return p.FulfillmentID != nil
}

// IsTerminal 检查是否处于终态（completed 永不回退，failed/canceled 不再推进）
func (p *Payment) IsTerminal() bool {
	return p.Status != string(StatusPending)
}
