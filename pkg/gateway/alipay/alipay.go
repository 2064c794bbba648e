// Package alipay 支付宝网关适配器
package alipay

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartwalle/alipay/v3"

	"shine/config"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
	"shine/pkg/logger"
)

// Adapter 支付宝适配器
type Adapter struct {
	client    *alipay.Client
	notifyURL string
}

// NewAdapter 创建支付宝适配器
func NewAdapter(cfg config.AlipayConfig) (*Adapter, error) {
	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, fmt.Errorf("create alipay client error: %w", err)
	}

	if err := client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, fmt.Errorf("load alipay public key error: %w", err)
	}

	return &Adapter{
		client:    client,
		notifyURL: cfg.NotifyURL,
	}, nil
}

// CreateSession 创建网页支付会话，OutTradeNo 使用调用方生成的参考号
func (a *Adapter) CreateSession(ctx context.Context, req *types.SessionRequest) (*types.Session, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("session amount must be greater than 0, got %d", req.Amount)
	}

	trade := alipay.TradePagePay{}
	trade.NotifyURL = a.notifyURL
	trade.ReturnURL = req.CallbackURL
	trade.Subject = req.Description
	trade.OutTradeNo = req.Reference
	trade.TotalAmount = minorUnitsToYuan(req.Amount)
	trade.ProductCode = "FAST_INSTANT_TRADE_PAY"

	url, err := a.client.TradePagePay(trade)
	if err != nil {
		return nil, fmt.Errorf("create alipay session error: %w", err)
	}

	return &types.Session{
		AuthorizationURL: url.String(),
		Reference:        req.Reference,
	}, nil
}

// VerifyTransaction 交易查询，纯读操作
func (a *Adapter) VerifyTransaction(ctx context.Context, reference string) (*types.Verification, error) {
	rsp, err := a.client.TradeQuery(ctx, alipay.TradeQuery{
		OutTradeNo: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("alipay trade query: %w: %v", errs.ErrGatewayUnavailable, err)
	}

	// 查询不到交易（用户未走到收银台）视作尚无定论
	if rsp.IsFailure() {
		logger.InfoString("网关", "支付宝核验", fmt.Sprintf("查询无果 参考号:%s 子码:%s", reference, rsp.SubCode))
		return &types.Verification{Outcome: types.OutcomeUnknown}, nil
	}

	verification := &types.Verification{
		Outcome:       normalizeTradeStatus(rsp.TradeStatus),
		AmountCharged: yuanToMinorUnits(rsp.TotalAmount),
		Currency:      "CNY",
	}

	if rsp.SendPayDate != "" {
		if paidAt, err := time.ParseInLocation("2006-01-02 15:04:05", rsp.SendPayDate, time.Local); err == nil {
			verification.PaidAt = &paidAt
		}
	}

	return verification, nil
}

// normalizeTradeStatus 把支付宝交易状态归一化成固定结果集合
func normalizeTradeStatus(status alipay.TradeStatus) types.Outcome {
	switch status {
	case alipay.TradeStatusSuccess, alipay.TradeStatusFinished:
		return types.OutcomeSuccess
	case alipay.TradeStatusClosed:
		// 未付款交易超时关闭
		return types.OutcomeAbandoned
	case alipay.TradeStatusWaitBuyerPay:
		return types.OutcomeUnknown
	default:
		return types.OutcomeUnknown
	}
}

// minorUnitsToYuan 分转元，支付宝接口要求两位小数的元字符串
func minorUnitsToYuan(amount int64) string {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// yuanToMinorUnits 元字符串转分
func yuanToMinorUnits(amount string) int64 {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}
