package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"shine/app/models/earning"
	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/config"
	"shine/pkg/logger"
)

// SettlementService 专家收入结算
//
// 每笔成功支付至多结算一次，earnings.payment_id 的唯一约束就是闸门；
// 重复结算直接返回已有台账行。
type SettlementService struct {
	earnings *repositories.EarningRepository
	payments *repositories.PaymentRepository
}

// NewSettlementService 创建结算服务
func NewSettlementService(earnings *repositories.EarningRepository, payments *repositories.PaymentRepository) *SettlementService {
	return &SettlementService{earnings: earnings, payments: payments}
}

// DefaultFeePercent 平台抽成比例（百分数），可被配置覆盖
func DefaultFeePercent() int64 {
	return config.GetInt64("app.platform_fee_percent", 15)
}

// ComputeFee 按比例计算平台抽成，四舍五入到最小货币单位
//
// 净得恒等于 gross - fee，绝不单独取整，保证 gross == fee + net。
func ComputeFee(gross int64, feePercent int64) (fee int64, net int64) {
	fee = decimal.NewFromInt(gross).
		Mul(decimal.NewFromInt(feePercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	return fee, gross - fee
}

// Settle 为一笔成功支付结算专家收入，可安全重复调用
func (s *SettlementService) Settle(ctx context.Context, p *payment.Payment, specialistID string) (*earning.Earning, error) {
	if !p.IsCompleted() {
		return nil, fmt.Errorf("payment %s is %s: cannot settle", p.Reference, p.Status)
	}
	if specialistID == "" {
		return nil, fmt.Errorf("payment %s: specialist not resolvable yet", p.Reference)
	}

	pct := DefaultFeePercent()
	fee, net := ComputeFee(p.Amount, pct)

	e := &earning.Earning{
		PaymentID:             p.ID,
		SpecialistID:          specialistID,
		GrossAmount:           p.Amount,
		PlatformFeeAmount:     fee,
		NetAmount:             net,
		PlatformFeePercentage: pct,
		Status:                string(earning.StatusAvailable),
	}

	existing, inserted, err := s.earnings.CreateIfAbsent(ctx, e)
	if err != nil {
		return nil, err
	}
	if inserted {
		logger.InfoString("结算", "Settle",
			fmt.Sprintf("支付 %s 结算完成 专家:%s 总额:%d 抽成:%d 净得:%d",
				p.Reference, specialistID, p.Amount, fee, net))
	}
	return existing, nil
}

// SettleOrFlag 结算失败时给支付打上对账标记再返回错误
//
// 完成预约、洗衣接单这些触发点都是一次性的状态流转，流转提交后
// 结算失败无法靠重放触发点补救，打标保证运营对账列表里看得见。
func (s *SettlementService) SettleOrFlag(ctx context.Context, p *payment.Payment, specialistID string) (*earning.Earning, error) {
	e, err := s.Settle(ctx, p, specialistID)
	if err != nil {
		logger.ErrorString("结算", "SettleOrFlag",
			fmt.Sprintf("支付 %s 结算失败，已转人工对账: %v", p.Reference, err))
		logger.LogIf(s.payments.FlagForReview(ctx, p.ID, "settlement failed: "+err.Error()))
		return nil, err
	}
	return e, nil
}
