package services

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"shine/app/models/appointment"
	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/errs"
)

// BeautyFinalizer 美容预约履约器
//
// 元数据里是客户勾选的服务子项 id 列表，解析时逐个换回目录里的
// 名称和价格做成快照，专家 id 从父服务主项上取。
type BeautyFinalizer struct {
	appointments *repositories.AppointmentRepository
	catalog      *repositories.CatalogRepository
}

// NewBeautyFinalizer 创建美容预约履约器
func NewBeautyFinalizer(appointments *repositories.AppointmentRepository, catalog *repositories.CatalogRepository) *BeautyFinalizer {
	return &BeautyFinalizer{appointments: appointments, catalog: catalog}
}

// OrderType 订单领域
func (f *BeautyFinalizer) OrderType() payment.OrderType {
	return payment.OrderTypeBeauty
}

// FindByPaymentID 按支付主键查找预约
func (f *BeautyFinalizer) FindByPaymentID(ctx context.Context, paymentID uint64) (*FulfillmentRecord, error) {
	a, err := f.appointments.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return appointmentRecord(a), nil
}

// ResolveOrder 解析预约元数据
func (f *BeautyFinalizer) ResolveOrder(ctx context.Context, p *payment.Payment, orderNumber string) (PendingOrder, error) {
	ids := castIDSlice(p.Metadata["service_type_ids"])
	if len(ids) == 0 {
		return nil, fmt.Errorf("payment %s: no service types selected: %w", p.Reference, errs.ErrUnresolvableBooking)
	}

	serviceTypes, err := f.catalog.GetServiceTypes(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 专家以第一个子项的父服务主项为准，所有子项同属一个主项
	parent, err := f.catalog.GetBeautyService(ctx, serviceTypes[0].ServiceID)
	if err != nil {
		return nil, err
	}

	services := make([]map[string]interface{}, 0, len(serviceTypes))
	for _, st := range serviceTypes {
		services = append(services, map[string]interface{}{
			"id":    st.ID,
			"name":  st.Name,
			"price": st.Price,
		})
	}

	a := &appointment.Appointment{
		OrderNumber:  orderNumber,
		PaymentID:    p.ID,
		UserID:       p.UserID,
		SpecialistID: parent.SpecialistID,
		Services:     payment.JSON{"items": services},
		Amount:       p.Amount,
		Date:         cast.ToString(p.Metadata["date"]),
		Time:         cast.ToString(p.Metadata["time"]),
		Address:      cast.ToString(p.Metadata["address"]),
		Status:       string(appointment.StatusPending),
	}
	return &pendingAppointment{appointment: a, repo: f.appointments}, nil
}

type pendingAppointment struct {
	appointment *appointment.Appointment
	repo        *repositories.AppointmentRepository
}

// Insert 在履约事务内写入预约
func (po *pendingAppointment) Insert(ctx context.Context, tx *gorm.DB) (*FulfillmentRecord, error) {
	if err := po.repo.Create(ctx, tx, po.appointment); err != nil {
		return nil, err
	}
	return appointmentRecord(po.appointment), nil
}

func appointmentRecord(a *appointment.Appointment) *FulfillmentRecord {
	return &FulfillmentRecord{
		ID:           a.ID,
		OrderNumber:  a.OrderNumber,
		Type:         string(payment.OrderTypeBeauty),
		SpecialistID: a.SpecialistID,
		Status:       a.Status,
	}
}

// castIDSlice 把 metadata 中的 id 列表转成 uint64 切片，非法项丢弃
func castIDSlice(v interface{}) []uint64 {
	raw := cast.ToSlice(v)
	ids := make([]uint64, 0, len(raw))
	for _, item := range raw {
		if id := cast.ToUint64(item); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
