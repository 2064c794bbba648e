package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shine/app/models/payment"
	"shine/pkg/database"
	"shine/pkg/errs"
	"shine/pkg/logger"
)

// PaymentRepository 支付台账仓库
//
// 台账的并发控制完全依赖数据库唯一约束（reference、fulfillment_id），
// 不持有任何进程内锁，多实例并发调用是安全的。
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{db: database.DB}
}

// NewPaymentRepositoryWithDB 指定数据库连接创建仓库实例（事务与测试场景）
func NewPaymentRepositoryWithDB(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePending 写入 pending 台账行，第一道幂等闸门
// reference 重复时返回 ErrDuplicateReference，属于调用方 bug
func (r *PaymentRepository) CreatePending(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Status = string(payment.StatusPending)

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("reference %s: %w", p.Reference, errs.ErrDuplicateReference)
		}
		return err
	}
	return nil
}

// GetByReference 根据参考号获取支付记录
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %s: %w", reference, errs.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// GetByID 根据主键获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id uint64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment id %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// MarkCompleted 把支付标记为已完成，第二道幂等闸门
//
// 已完成的记录直接按成功返回（no-op），重复核验因此是安全的。
// 网关扣款金额与台账入账金额不一致时返回 ErrAmountMismatch：
// 记录保持 pending 并打上对账标记，高等级记日志，绝不静默修正。
func (r *PaymentRepository) MarkCompleted(ctx context.Context, reference string, gatewayAmount int64, paidAt *time.Time) (*payment.Payment, error) {
	p, err := r.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	// 幂等：已完成直接返回成功
	if p.IsCompleted() {
		return p, nil
	}

	if p.Status != string(payment.StatusPending) {
		return nil, fmt.Errorf("payment %s is %s: %w", reference, p.Status, errs.ErrInvalidStateTransition)
	}

	// 金额校验，防御客户端篡改展示价格
	if gatewayAmount != p.Amount {
		logger.Error("支付台账", logAmountMismatch(p, gatewayAmount)...)
		reason := fmt.Sprintf("amount mismatch: ledger=%d gateway=%d", p.Amount, gatewayAmount)
		if err := r.flag(ctx, p.ID, reason); err != nil {
			logger.LogIf(err)
		}
		return nil, fmt.Errorf("payment %s: %w", reference, errs.ErrAmountMismatch)
	}

	if paidAt == nil {
		now := time.Now()
		paidAt = &now
	}

	// 带状态条件的更新，和并发的核验调用竞争时以数据库为准
	result := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("reference = ? AND status = ?", reference, payment.StatusPending).
		Updates(map[string]interface{}{
			"status":  payment.StatusCompleted,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// 并发对手先完成了流转，重读后按结果处理
		p, err = r.GetByReference(ctx, reference)
		if err != nil {
			return nil, err
		}
		if p.IsCompleted() {
			return p, nil
		}
		return nil, fmt.Errorf("payment %s is %s: %w", reference, p.Status, errs.ErrInvalidStateTransition)
	}

	return r.GetByReference(ctx, reference)
}

// MarkFailed 标记支付失败，仅允许从 pending 流转
func (r *PaymentRepository) MarkFailed(ctx context.Context, reference string) error {
	return r.markTerminal(ctx, reference, payment.StatusFailed)
}

// MarkCanceled 标记支付取消，仅允许从 pending 流转
func (r *PaymentRepository) MarkCanceled(ctx context.Context, reference string) error {
	return r.markTerminal(ctx, reference, payment.StatusCanceled)
}

// markTerminal pending → failed/canceled 的公共实现，重复调用按成功处理
func (r *PaymentRepository) markTerminal(ctx context.Context, reference string, target payment.Status) error {
	result := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("reference = ? AND status = ?", reference, payment.StatusPending).
		Update("status", target)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		p, err := r.GetByReference(ctx, reference)
		if err != nil {
			return err
		}
		if p.Status == string(target) {
			return nil // 幂等
		}
		return fmt.Errorf("payment %s is %s: %w", reference, p.Status, errs.ErrInvalidStateTransition)
	}
	return nil
}

// LinkFulfillment 写入履约回链，只允许设置一次
// 回链已存在时返回 false，调用方应走已有记录的查询路径
func (r *PaymentRepository) LinkFulfillment(ctx context.Context, tx *gorm.DB, paymentID uint64, fulfillmentID uint64, fulfillmentType string) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&payment.Payment{}).
		Where("id = ? AND fulfillment_id IS NULL", paymentID).
		Updates(map[string]interface{}{
			"fulfillment_id":   fulfillmentID,
			"fulfillment_type": fulfillmentType,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FlagForReview 给支付记录打上人工对账标记
func (r *PaymentRepository) FlagForReview(ctx context.Context, paymentID uint64, reason string) error {
	return r.flag(ctx, paymentID, reason)
}

func (r *PaymentRepository) flag(ctx context.Context, paymentID uint64, reason string) error {
	return r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("id = ?", paymentID).
		Update("flagged_reason", reason).Error
}

// ListForReconciliation 运营对账列表：已完成但未关联履约、或被标记的支付
func (r *PaymentRepository) ListForReconciliation(ctx context.Context, limit int) ([]payment.Payment, error) {
	var ps []payment.Payment
	err := r.db.WithContext(ctx).
		Where("(status = ? AND fulfillment_id IS NULL) OR flagged_reason <> ''", payment.StatusCompleted).
		Order("created_at ASC").
		Limit(limit).
		Find(&ps).Error
	return ps, err
}

// logAmountMismatch 金额不一致的高等级日志字段
func logAmountMismatch(p *payment.Payment, gatewayAmount int64) []zap.Field {
	return []zap.Field{
		zap.String("event", "amount_mismatch"),
		zap.String("reference", p.Reference),
		zap.Int64("ledger_amount", p.Amount),
		zap.Int64("gateway_amount", gatewayAmount),
	}
}

// SweepStalePending 把超过 TTL 仍未核验的 pending 记录批量置为 canceled
// 这是唯一允许在没有用户动作的情况下做 pending → canceled 的路径
func (r *PaymentRepository) SweepStalePending(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	result := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Where("status = ? AND created_at < ?", payment.StatusPending, cutoff).
		Update("status", payment.StatusCanceled)
	return result.RowsAffected, result.Error
}
