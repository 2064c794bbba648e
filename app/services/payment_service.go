package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
	"shine/pkg/logger"
	"shine/pkg/queue"
)

// PaymentService 支付链路的编排服务
//
// 轮询回调和 webhook 两个入口都汇入 ProcessVerification 这一条管线：
// 核验 → 推进台账 → 履约 → 结算 → 通知。管线的每一步都幂等，
// 任何位置崩溃后重放整条管线都会收敛到同一结果。
type PaymentService struct {
	adapter    types.Adapter
	payments   *repositories.PaymentRepository
	finalizer  *Finalizer
	settlement *SettlementService
	notifier   *queue.QueueService
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	adapter types.Adapter,
	payments *repositories.PaymentRepository,
	finalizer *Finalizer,
	settlement *SettlementService,
	notifier *queue.QueueService,
) *PaymentService {
	return &PaymentService{
		adapter:    adapter,
		payments:   payments,
		finalizer:  finalizer,
		settlement: settlement,
		notifier:   notifier,
	}
}

// CreateSessionInput 创建支付会话的入参
type CreateSessionInput struct {
	UserID      string
	Amount      int64
	Currency    string
	Provider    string
	CallbackURL string
	Description string
	Metadata    payment.JSON // 必须带订单类型判别字段 type
}

// SessionResult 创建支付会话的结果
type SessionResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// GenerateReference 生成全局唯一的支付参考号
func GenerateReference() string {
	return fmt.Sprintf("PAY-%d-%s", time.Now().Unix(),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]))
}

// CreateSession 创建托管支付会话
//
// 台账行先于网关调用落库：任何外部状态产生之前本地一定有据可查。
// 网关调用失败时把记录标记为 failed，调用方换新参考号重试。
func (s *PaymentService) CreateSession(ctx context.Context, in *CreateSessionInput) (*SessionResult, error) {
	p := &payment.Payment{
		Reference: GenerateReference(),
		UserID:    in.UserID,
		Provider:  in.Provider,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Metadata:  in.Metadata,
	}
	if err := s.payments.CreatePending(ctx, p); err != nil {
		return nil, err
	}

	session, err := s.adapter.CreateSession(ctx, &types.SessionRequest{
		Reference:   p.Reference,
		Amount:      p.Amount,
		Currency:    p.Currency,
		CallbackURL: in.CallbackURL,
		Description: in.Description,
		Metadata:    in.Metadata,
	})
	if err != nil {
		logger.LogIf(s.payments.MarkFailed(ctx, p.Reference))
		return nil, fmt.Errorf("create session for %s: %w", p.Reference, err)
	}

	return &SessionResult{
		Reference:        p.Reference,
		AuthorizationURL: session.AuthorizationURL,
	}, nil
}

// GetPayment 查询台账记录
func (s *PaymentService) GetPayment(ctx context.Context, reference string) (*payment.Payment, error) {
	return s.payments.GetByReference(ctx, reference)
}

// VerificationResult 一次核验管线的结果
type VerificationResult struct {
	Payment     *payment.Payment   `json:"payment"`
	Outcome     types.Outcome      `json:"outcome"`
	Fulfillment *FulfillmentRecord `json:"fulfillment,omitempty"`
}

// ProcessVerification 核验一笔支付并推进整条履约管线，可安全重复调用
//
// 已完成的支付跳过网关核验直接续跑履约（崩溃重放路径）；
// unknown 结果不做任何状态变更，留给下一次轮询。
func (s *PaymentService) ProcessVerification(ctx context.Context, reference string) (*VerificationResult, error) {
	p, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	outcome := types.OutcomeSuccess
	if !p.IsCompleted() {
		v, err := s.adapter.VerifyTransaction(ctx, reference)
		if err != nil {
			return nil, err
		}
		outcome = v.Outcome

		switch v.Outcome {
		case types.OutcomeSuccess:
			p, err = s.payments.MarkCompleted(ctx, reference, v.AmountCharged, v.PaidAt)
			if err != nil {
				return nil, err
			}
		case types.OutcomeFailed:
			if err := s.payments.MarkFailed(ctx, reference); err != nil {
				return nil, err
			}
			p.Status = string(payment.StatusFailed)
			return &VerificationResult{Payment: p, Outcome: outcome}, nil
		case types.OutcomeAbandoned:
			if err := s.payments.MarkCanceled(ctx, reference); err != nil {
				return nil, err
			}
			p.Status = string(payment.StatusCanceled)
			return &VerificationResult{Payment: p, Outcome: outcome}, nil
		default:
			// 网关侧尚无定论，不动台账
			return &VerificationResult{Payment: p, Outcome: types.OutcomeUnknown}, nil
		}
	}

	result := &VerificationResult{Payment: p, Outcome: outcome}

	rec, err := s.finalizer.Finalize(ctx, p)
	if err != nil {
		if errors.Is(err, errs.ErrUnresolvableBooking) {
			// 支付保持 completed 并已标记人工对账，对客户仍报支付成功
			logger.ErrorString("支付管线", "Finalize",
				fmt.Sprintf("支付 %s 无法履约，已转人工对账: %v", reference, err))
			return result, nil
		}
		return nil, err
	}
	result.Fulfillment = rec

	// 洗衣/保洁在履约时结算（能确定专家时）；美容预约在 completed 时结算。
	// 结算失败不回滚已提交的履约，支付已被打上对账标记
	if rec.Type != string(payment.OrderTypeBeauty) && rec.SpecialistID != "" {
		_, _ = s.settlement.SettleOrFlag(ctx, p, rec.SpecialistID)
	}

	s.notifyFulfillment(ctx, p, rec)
	return result, nil
}

// notifyFulfillment 履约完成后的站内通知，fire-and-forget
func (s *PaymentService) notifyFulfillment(ctx context.Context, p *payment.Payment, rec *FulfillmentRecord) {
	if s.notifier == nil {
		return
	}

	tasks := []*queue.NotificationTask{
		{
			ID:              uuid.NewString(),
			RecipientID:     p.UserID,
			Title:           "支付成功",
			Message:         fmt.Sprintf("您的订单 %s 已创建", rec.OrderNumber),
			Type:            "payment_completed",
			FulfillmentID:   rec.ID,
			FulfillmentType: rec.Type,
			ActionURL:       fmt.Sprintf("/orders/%s/%d", rec.Type, rec.ID),
			CreatedAt:       time.Now(),
		},
	}
	if rec.SpecialistID != "" {
		tasks = append(tasks, &queue.NotificationTask{
			ID:              uuid.NewString(),
			RecipientID:     rec.SpecialistID,
			Title:           "新订单",
			Message:         fmt.Sprintf("订单 %s 待处理", rec.OrderNumber),
			Type:            "order_created",
			FulfillmentID:   rec.ID,
			FulfillmentType: rec.Type,
			ActionURL:       fmt.Sprintf("/orders/%s/%d", rec.Type, rec.ID),
			CreatedAt:       time.Now(),
		})
	}

	for _, task := range tasks {
		if task.RecipientID == "" {
			continue // 游客支付没有站内通知收件人
		}
		// 入队失败只记日志，绝不影响已提交的履约
		if err := s.notifier.Dispatch(ctx, task); err != nil {
			logger.ErrorString("支付管线", "Notify",
				fmt.Sprintf("通知入队失败 收件人:%s 订单:%s: %v", task.RecipientID, rec.OrderNumber, err))
		}
	}
}
