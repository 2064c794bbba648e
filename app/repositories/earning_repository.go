package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shine/app/models/earning"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// EarningRepository 专家收入台账仓库
type EarningRepository struct {
	db *gorm.DB
}

// NewEarningRepository 创建仓库实例
func NewEarningRepository() *EarningRepository {
	return &EarningRepository{db: database.DB}
}

// NewEarningRepositoryWithDB 指定数据库连接创建仓库实例
func NewEarningRepositoryWithDB(db *gorm.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

// CreateIfAbsent 幂等写入收入记录
//
// payment_id 唯一索引就是幂等闸门：冲突时不写入、不报错，
// 调用方拿到的是已存在的那条记录。返回值标识本次是否真正插入。
func (r *EarningRepository) CreateIfAbsent(ctx context.Context, e *earning.Earning) (*earning.Earning, bool, error) {
	if err := e.Validate(); err != nil {
		return nil, false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(e)
	if result.Error != nil {
		return nil, false, result.Error
	}

	// 冲突时 RowsAffected 为 0，读回已有记录
	if result.RowsAffected == 0 {
		existing, err := r.GetByPaymentID(ctx, e.PaymentID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return e, true, nil
}

// GetByPaymentID 根据支付回链获取收入记录
func (r *EarningRepository) GetByPaymentID(ctx context.Context, paymentID uint64) (*earning.Earning, error) {
	var e earning.Earning
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("earning for payment %d: %w", paymentID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// ListBySpecialist 专家的收入流水
func (r *EarningRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]earning.Earning, error) {
	var es []earning.Earning
	err := r.db.WithContext(ctx).
		Where("specialist_id = ?", specialistID).
		Order("created_at DESC").
		Find(&es).Error
	return es, err
}

// TotalAvailable 专家可提现总额
func (r *EarningRepository) TotalAvailable(ctx context.Context, specialistID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&earning.Earning{}).
		Where("specialist_id = ? AND status = ?", specialistID, earning.StatusAvailable).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&total).Error
	return total, err
}
