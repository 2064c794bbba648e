// Package paystack 托管收银台网关适配器
//
// 通过 REST API 创建托管支付会话并按参考号核验交易。
// 网络错误与 5xx 在客户端内做指数退避重试；网关给出的明确终态结果不重试。
package paystack

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"shine/config"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
	"shine/pkg/logger"
)

// Adapter 托管收银台适配器
type Adapter struct {
	client *resty.Client
}

// initializeRequest 创建会话的请求体
type initializeRequest struct {
	Reference   string                 `json:"reference"`
	Amount      int64                  `json:"amount"` // 最小货币单位
	Currency    string                 `json:"currency"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// initializeResponse 创建会话的响应体
type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// verifyResponse 核验交易的响应体
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"` // success / failed / abandoned
		Amount   int64  `json:"amount"` // 最小货币单位
		Currency string `json:"currency"`
		PaidAt   string `json:"paid_at"`
	} `json:"data"`
}

// NewAdapter 创建托管收银台适配器
func NewAdapter(cfg config.PaystackConfig) *Adapter {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		// 指数退避重试，仅针对传输层错误与 5xx；
		// 网关返回的业务结果（失败/放弃）是终态，不会走到重试条件里
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &Adapter{client: client}
}

// CreateSession 创建托管支付会话
func (a *Adapter) CreateSession(ctx context.Context, req *types.SessionRequest) (*types.Session, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("session amount must be greater than 0, got %d", req.Amount)
	}
	if req.Reference == "" {
		return nil, fmt.Errorf("session reference is required")
	}

	var result initializeResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(initializeRequest{
			Reference:   req.Reference,
			Amount:      req.Amount,
			Currency:    req.Currency,
			CallbackURL: req.CallbackURL,
			Description: req.Description,
			Metadata:    req.Metadata,
		}).
		SetResult(&result).
		Post("/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %w: %v", errs.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("initialize transaction: %w: gateway returned %d", errs.ErrGatewayUnavailable, resp.StatusCode())
	}
	if resp.IsError() || !result.Status {
		return nil, fmt.Errorf("initialize transaction rejected: %s", result.Message)
	}

	return &types.Session{
		AuthorizationURL: result.Data.AuthorizationURL,
		Reference:        result.Data.Reference,
	}, nil
}

// VerifyTransaction 按参考号核验交易，纯读操作，可重复调用
func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (*types.Verification, error) {
	var result verifyResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return nil, fmt.Errorf("verify transaction: %w: %v", errs.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("verify transaction: %w: gateway returned %d", errs.ErrGatewayUnavailable, resp.StatusCode())
	}
	if resp.IsError() || !result.Status {
		return nil, fmt.Errorf("verify transaction rejected: %s", result.Message)
	}

	verification := &types.Verification{
		Outcome:       normalizeStatus(result.Data.Status),
		AmountCharged: result.Data.Amount,
		Currency:      result.Data.Currency,
	}

	if result.Data.PaidAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, result.Data.PaidAt); err == nil {
			verification.PaidAt = &paidAt
		}
	}

	return verification, nil
}

// normalizeStatus 把网关私有状态归一化成固定结果集合
func normalizeStatus(status string) types.Outcome {
	switch status {
	case "success":
		return types.OutcomeSuccess
	case "failed":
		return types.OutcomeFailed
	case "abandoned":
		return types.OutcomeAbandoned
	default:
		// ongoing / queued 等中间态一律视作尚无定论
		logger.InfoString("网关", "核验", "未识别的网关状态: "+status)
		return types.OutcomeUnknown
	}
}
