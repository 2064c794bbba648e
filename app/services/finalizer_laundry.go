package services

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"shine/app/models/laundry"
	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/errs"
)

// 预估重量（公斤）到价格档位的映射边界
const (
	laundryTierSmallMaxKg  = 5
	laundryTierMediumMaxKg = 10
)

// LaundryFinalizer 洗衣订单履约器
//
// 洗衣没有目录表，元数据里的预估重量直接解析成价格档位；
// 订单创建时还没有专家接单，specialist_id 留空。
type LaundryFinalizer struct {
	orders *repositories.LaundryRepository
}

// NewLaundryFinalizer 创建洗衣订单履约器
func NewLaundryFinalizer(orders *repositories.LaundryRepository) *LaundryFinalizer {
	return &LaundryFinalizer{orders: orders}
}

// OrderType 订单领域
func (f *LaundryFinalizer) OrderType() payment.OrderType {
	return payment.OrderTypeLaundry
}

// FindByPaymentID 按支付主键查找洗衣订单
func (f *LaundryFinalizer) FindByPaymentID(ctx context.Context, paymentID uint64) (*FulfillmentRecord, error) {
	o, err := f.orders.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return laundryRecord(o), nil
}

// ResolveOrder 解析洗衣元数据
func (f *LaundryFinalizer) ResolveOrder(ctx context.Context, p *payment.Payment, orderNumber string) (PendingOrder, error) {
	weight := cast.ToInt(p.Metadata["estimated_weight_kg"])
	if weight <= 0 {
		return nil, fmt.Errorf("payment %s: invalid estimated weight %d: %w",
			p.Reference, weight, errs.ErrUnresolvableBooking)
	}

	o := &laundry.LaundryOrder{
		OrderNumber:       orderNumber,
		PaymentID:         p.ID,
		UserID:            p.UserID,
		EstimatedWeightKg: weight,
		PriceTier:         laundryPriceTier(weight),
		Amount:            p.Amount,
		PickupDate:        cast.ToString(p.Metadata["pickup_date"]),
		Address:           cast.ToString(p.Metadata["address"]),
		Status:            string(laundry.StatusPendingPickup),
	}
	return &pendingLaundryOrder{order: o, repo: f.orders}, nil
}

// laundryPriceTier 预估重量解析出价格档位
func laundryPriceTier(weightKg int) string {
	switch {
	case weightKg <= laundryTierSmallMaxKg:
		return "small"
	case weightKg <= laundryTierMediumMaxKg:
		return "medium"
	default:
		return "large"
	}
}

type pendingLaundryOrder struct {
	order *laundry.LaundryOrder
	repo  *repositories.LaundryRepository
}

// Insert 在履约事务内写入洗衣订单
func (po *pendingLaundryOrder) Insert(ctx context.Context, tx *gorm.DB) (*FulfillmentRecord, error) {
	if err := po.repo.Create(ctx, tx, po.order); err != nil {
		return nil, err
	}
	return laundryRecord(po.order), nil
}

func laundryRecord(o *laundry.LaundryOrder) *FulfillmentRecord {
	rec := &FulfillmentRecord{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Type:        string(payment.OrderTypeLaundry),
		Status:      o.Status,
	}
	if o.SpecialistID != nil {
		rec.SpecialistID = *o.SpecialistID
	}
	return rec
}
