package services

import (
	"context"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"shine/app/models/cleaning"
	"shine/app/models/payment"
	"shine/app/repositories"
)

// CleaningFinalizer 保洁订单履约器
//
// 元数据里的服务项 id 换回目录里的全价和专家；线上实收的是
// 优惠预约费（p.Amount），与服务全价分开存。
type CleaningFinalizer struct {
	orders  *repositories.CleaningRepository
	catalog *repositories.CatalogRepository
}

// NewCleaningFinalizer 创建保洁订单履约器
func NewCleaningFinalizer(orders *repositories.CleaningRepository, catalog *repositories.CatalogRepository) *CleaningFinalizer {
	return &CleaningFinalizer{orders: orders, catalog: catalog}
}

// OrderType 订单领域
func (f *CleaningFinalizer) OrderType() payment.OrderType {
	return payment.OrderTypeCleaning
}

// FindByPaymentID 按支付主键查找保洁订单
func (f *CleaningFinalizer) FindByPaymentID(ctx context.Context, paymentID uint64) (*FulfillmentRecord, error) {
	o, err := f.orders.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return cleaningRecord(o), nil
}

// ResolveOrder 解析保洁元数据
func (f *CleaningFinalizer) ResolveOrder(ctx context.Context, p *payment.Payment, orderNumber string) (PendingOrder, error) {
	serviceID := cast.ToUint64(p.Metadata["service_id"])
	svc, err := f.catalog.GetCleaningService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	o := &cleaning.CleaningOrder{
		OrderNumber:     orderNumber,
		PaymentID:       p.ID,
		UserID:          p.UserID,
		SpecialistID:    svc.SpecialistID,
		ServiceID:       svc.ID,
		FullServiceCost: svc.FullPrice,
		BookingFee:      p.Amount,
		Date:            cast.ToString(p.Metadata["date"]),
		Address:         cast.ToString(p.Metadata["address"]),
		Status:          string(cleaning.StatusPending),
	}
	return &pendingCleaningOrder{order: o, repo: f.orders}, nil
}

type pendingCleaningOrder struct {
	order *cleaning.CleaningOrder
	repo  *repositories.CleaningRepository
}

// Insert 在履约事务内写入保洁订单
func (po *pendingCleaningOrder) Insert(ctx context.Context, tx *gorm.DB) (*FulfillmentRecord, error) {
	if err := po.repo.Create(ctx, tx, po.order); err != nil {
		return nil, err
	}
	return cleaningRecord(po.order), nil
}

func cleaningRecord(o *cleaning.CleaningOrder) *FulfillmentRecord {
	return &FulfillmentRecord{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Type:         string(payment.OrderTypeCleaning),
		SpecialistID: o.SpecialistID,
		Status:       o.Status,
	}
}
