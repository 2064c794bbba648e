// Package wechat 微信支付网关适配器（Native 扫码下单）
package wechat

import (
	"context"
	"fmt"
	"time"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"

	"shine/config"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
)

// Adapter 微信支付适配器
type Adapter struct {
	svc       *native.NativeApiService
	appID     string
	mchID     string
	notifyURL string
}

// NewAdapter 创建微信支付适配器
func NewAdapter(cfg config.WechatConfig) (*Adapter, error) {
	privateKey, err := utils.LoadPrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("load wechat merchant private key error: %w", err)
	}

	client, err := core.NewClient(
		context.Background(),
		option.WithWechatPayAutoAuthCipher(cfg.MchID, cfg.SerialNo, privateKey, cfg.APIv3Key),
	)
	if err != nil {
		return nil, fmt.Errorf("create wechat pay client error: %w", err)
	}

	return &Adapter{
		svc:       &native.NativeApiService{Client: client},
		appID:     cfg.AppID,
		mchID:     cfg.MchID,
		notifyURL: cfg.NotifyURL,
	}, nil
}

// CreateSession Native 下单，返回的二维码链接作为支付跳转地址
func (a *Adapter) CreateSession(ctx context.Context, req *types.SessionRequest) (*types.Session, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("session amount must be greater than 0, got %d", req.Amount)
	}

	resp, _, err := a.svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(a.appID),
		Mchid:       core.String(a.mchID),
		Description: core.String(req.Description),
		OutTradeNo:  core.String(req.Reference),
		NotifyUrl:   core.String(a.notifyURL),
		Amount: &native.Amount{
			Total:    core.Int64(req.Amount),
			Currency: core.String(req.Currency),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wechat prepay: %w: %v", errs.ErrGatewayUnavailable, err)
	}

	return &types.Session{
		AuthorizationURL: *resp.CodeUrl,
		Reference:        req.Reference,
	}, nil
}

// VerifyTransaction 按商户订单号查询交易，纯读操作
func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (*types.Verification, error) {
	tx, _, err := a.svc.QueryOrderByOutTradeNo(ctx, native.QueryOrderByOutTradeNoRequest{
		OutTradeNo: core.String(reference),
		Mchid:      core.String(a.mchID),
	})
	if err != nil {
		return nil, fmt.Errorf("wechat query order: %w: %v", errs.ErrGatewayUnavailable, err)
	}

	verification := &types.Verification{
		Outcome: normalizeTradeState(tx.TradeState),
	}

	if tx.Amount != nil && tx.Amount.Total != nil {
		verification.AmountCharged = *tx.Amount.Total
	}
	if tx.Amount != nil && tx.Amount.Currency != nil {
		verification.Currency = *tx.Amount.Currency
	}
	if tx.SuccessTime != nil {
		if paidAt, err := time.Parse(time.RFC3339, *tx.SuccessTime); err == nil {
			verification.PaidAt = &paidAt
		}
	}

	return verification, nil
}

// normalizeTradeState 把微信交易状态归一化成固定结果集合
func normalizeTradeState(state *string) types.Outcome {
	if state == nil {
		return types.OutcomeUnknown
	}
	switch *state {
	case "SUCCESS":
		return types.OutcomeSuccess
	case "PAYERROR":
		return types.OutcomeFailed
	case "CLOSED", "REVOKED":
		return types.OutcomeAbandoned
	case "NOTPAY", "USERPAYING":
		return types.OutcomeUnknown
	default:
		return types.OutcomeUnknown
	}
}
