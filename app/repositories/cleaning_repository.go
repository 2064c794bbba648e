package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shine/app/models/cleaning"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// CleaningRepository 保洁订单仓库
type CleaningRepository struct {
	db *gorm.DB
}

// NewCleaningRepository 创建仓库实例
func NewCleaningRepository() *CleaningRepository {
	return &CleaningRepository{db: database.DB}
}

// NewCleaningRepositoryWithDB 指定数据库连接创建仓库实例
func NewCleaningRepositoryWithDB(db *gorm.DB) *CleaningRepository {
	return &CleaningRepository{db: db}
}

// Create 创建保洁订单，payment_id 唯一约束保证每笔支付至多一条
func (r *CleaningRepository) Create(ctx context.Context, tx *gorm.DB, o *cleaning.CleaningOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(o).Error
}

// GetByID 根据主键获取订单
func (r *CleaningRepository) GetByID(ctx context.Context, id uint64) (*cleaning.CleaningOrder, error) {
	var o cleaning.CleaningOrder
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cleaning order %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

// GetByPaymentID 根据支付回链获取订单
func (r *CleaningRepository) GetByPaymentID(ctx context.Context, paymentID uint64) (*cleaning.CleaningOrder, error) {
	var o cleaning.CleaningOrder
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cleaning order for payment %d: %w", paymentID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

// Save 保存订单状态变更
func (r *CleaningRepository) Save(ctx context.Context, o *cleaning.CleaningOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}
