// Package types 定义支付网关适配层的公共类型
//
// 适配器把各网关私有的交易状态归一化成固定的结果集合，
// 自身不读写本地任何状态，核验接口可以安全地重复调用。
package types

import (
	"context"
	"time"
)

// Provider 支付网关提供商类型
type Provider string

const (
	ProviderPaystack Provider = "paystack" // 托管收银台（主力通道）
	ProviderAlipay   Provider = "alipay"   // 支付宝
	ProviderWechat   Provider = "wechat"   // 微信支付
)

// Outcome 归一化后的交易结果
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"   // 支付成功
	OutcomeFailed    Outcome = "failed"    // 明确失败，终态，不应重试
	OutcomeAbandoned Outcome = "abandoned" // 用户放弃，终态，不应重试
	OutcomeUnknown   Outcome = "unknown"   // 网关侧尚无定论
)

// IsTerminal 判断结果是否为终态
func (o Outcome) IsTerminal() bool {
	return o == OutcomeSuccess || o == OutcomeFailed || o == OutcomeAbandoned
}

// SessionRequest 创建托管支付会话的请求参数
type SessionRequest struct {
	Reference   string                 `json:"reference"` // 调用方生成的全局唯一参考号
	Amount      int64                  `json:"amount"`    // 最小货币单位，必须大于 0
	Currency    string                 `json:"currency"`
	CallbackURL string                 `json:"callback_url"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Session 托管支付会话
type Session struct {
	AuthorizationURL string `json:"authorization_url"` // 跳转给用户完成支付的地址
	Reference        string `json:"reference"`
}

// Verification 按参考号核验的归一化结果
type Verification struct {
	Outcome       Outcome    `json:"outcome"`
	AmountCharged int64      `json:"amount_charged"` // 网关侧实际扣款金额，最小货币单位
	Currency      string     `json:"currency"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// Adapter 支付网关适配器接口
type Adapter interface {
	// CreateSession 创建托管支付会话，返回跳转地址
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)

	// VerifyTransaction 按参考号核验交易，对网关是纯读操作，可重复调用
	VerifyTransaction(ctx context.Context, reference string) (*Verification, error)
}
