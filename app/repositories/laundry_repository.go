package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shine/app/models/laundry"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// LaundryRepository 洗衣订单仓库
type LaundryRepository struct {
	db *gorm.DB
}

// NewLaundryRepository 创建仓库实例
func NewLaundryRepository() *LaundryRepository {
	return &LaundryRepository{db: database.DB}
}

// NewLaundryRepositoryWithDB 指定数据库连接创建仓库实例
func NewLaundryRepositoryWithDB(db *gorm.DB) *LaundryRepository {
	return &LaundryRepository{db: db}
}

// Create 创建洗衣订单，payment_id 唯一约束保证每笔支付至多一条
func (r *LaundryRepository) Create(ctx context.Context, tx *gorm.DB, o *laundry.LaundryOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(o).Error
}

// GetByID 根据主键获取订单
func (r *LaundryRepository) GetByID(ctx context.Context, id uint64) (*laundry.LaundryOrder, error) {
	var o laundry.LaundryOrder
	err := r.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("laundry order %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

// GetByPaymentID 根据支付回链获取订单
func (r *LaundryRepository) GetByPaymentID(ctx context.Context, paymentID uint64) (*laundry.LaundryOrder, error) {
	var o laundry.LaundryOrder
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("laundry order for payment %d: %w", paymentID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

// Save 保存订单状态变更
func (r *LaundryRepository) Save(ctx context.Context, o *laundry.LaundryOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// AssignSpecialist 接单：写入专家，仅在尚未分配时生效
func (r *LaundryRepository) AssignSpecialist(ctx context.Context, orderID uint64, specialistID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&laundry.LaundryOrder{}).
		Where("id = ? AND specialist_id IS NULL", orderID).
		Update("specialist_id", specialistID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
