package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shine/app/models/appointment"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// AppointmentRepository 美容预约仓库
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository 创建仓库实例
func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{db: database.DB}
}

// NewAppointmentRepositoryWithDB 指定数据库连接创建仓库实例
func NewAppointmentRepositoryWithDB(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create 创建预约记录，payment_id 唯一约束保证每笔支付至多一条
func (r *AppointmentRepository) Create(ctx context.Context, tx *gorm.DB, a *appointment.Appointment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(a).Error
}

// GetByID 根据主键获取预约
func (r *AppointmentRepository) GetByID(ctx context.Context, id uint64) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %d: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// GetByPaymentID 根据支付回链获取预约，幂等与对账路径都从这里走
func (r *AppointmentRepository) GetByPaymentID(ctx context.Context, paymentID uint64) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment for payment %d: %w", paymentID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// Save 保存预约状态变更
func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// ListBySpecialist 专家名下的预约
func (r *AppointmentRepository) ListBySpecialist(ctx context.Context, specialistID string) ([]appointment.Appointment, error) {
	var as []appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("specialist_id = ?", specialistID).
		Order("created_at DESC").
		Find(&as).Error
	return as, err
}
