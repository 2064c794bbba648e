// Package services 支付结算链路的业务服务层
//
// 履约器把一笔成功支付物化成领域订单，整条链路的幂等性由数据库
// 唯一约束保证（payments.fulfillment_id、各订单表的 payment_id），
// 重复调用、并发调用、崩溃重放都收敛到同一条订单记录。
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shine/app/models/payment"
	"shine/app/repositories"
	"shine/pkg/errs"
	"shine/pkg/logger"
)

// FulfillmentRecord 履约结果摘要，三个领域共用
type FulfillmentRecord struct {
	ID           uint64 `json:"id"`
	OrderNumber  string `json:"order_number"`
	Type         string `json:"type"`
	SpecialistID string `json:"specialist_id"` // 洗衣订单接单前为空
	Status       string `json:"status"`
}

// PendingOrder 已解析、未落库的领域订单，在履约事务内写入
type PendingOrder interface {
	Insert(ctx context.Context, tx *gorm.DB) (*FulfillmentRecord, error)
}

// DomainFinalizer 领域履约器，每个订单领域各实现一份
type DomainFinalizer interface {
	// OrderType 履约器负责的订单领域
	OrderType() payment.OrderType

	// FindByPaymentID 按支付主键查找已存在的订单，没有时返回 ErrNotFound
	// 这是对账路径：订单插入和回链写入之间崩溃时，回链为空但订单已存在
	FindByPaymentID(ctx context.Context, paymentID uint64) (*FulfillmentRecord, error)

	// ResolveOrder 把支付元数据解析成未落库的订单
	// 元数据引用的目录项不存在时返回 ErrUnresolvableBooking
	ResolveOrder(ctx context.Context, p *payment.Payment, orderNumber string) (PendingOrder, error)
}

// orderNumberPrefix 各领域订单号前缀
var orderNumberPrefix = map[payment.OrderType]string{
	payment.OrderTypeBeauty:   "BA",
	payment.OrderTypeLaundry:  "LD",
	payment.OrderTypeCleaning: "CL",
}

// GenerateOrderNumber 生成对客户可见的订单号，如 BA-20260828-7F3A2B
func GenerateOrderNumber(t payment.OrderType) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix[t], time.Now().Format("20060102"), suffix)
}

// Finalizer 幂等履约器，三个订单领域共用同一套推进算法
type Finalizer struct {
	db       *gorm.DB
	payments *repositories.PaymentRepository
	domains  map[payment.OrderType]DomainFinalizer
}

// NewFinalizer 创建履约器并注册领域实现
func NewFinalizer(db *gorm.DB, payments *repositories.PaymentRepository, domains ...DomainFinalizer) *Finalizer {
	f := &Finalizer{
		db:       db,
		payments: payments,
		domains:  make(map[payment.OrderType]DomainFinalizer),
	}
	for _, d := range domains {
		f.domains[d.OrderType()] = d
	}
	return f
}

// Finalize 把一笔已完成的支付物化成领域订单，可安全重复调用
//
// 三道闸门依次检查：回链已写入、订单已存在（对账路径）、
// 事务内插入时的唯一约束。任何一道命中都按成功返回已有订单。
func (f *Finalizer) Finalize(ctx context.Context, p *payment.Payment) (*FulfillmentRecord, error) {
	if !p.IsCompleted() {
		return nil, fmt.Errorf("payment %s is %s: %w", p.Reference, p.Status, errs.ErrInvalidStateTransition)
	}

	d, ok := f.domains[p.OrderType()]
	if !ok {
		reason := fmt.Sprintf("unknown order type %q", p.OrderType())
		logger.LogIf(f.payments.FlagForReview(ctx, p.ID, reason))
		return nil, fmt.Errorf("payment %s: %s: %w", p.Reference, reason, errs.ErrUnresolvableBooking)
	}

	// 闸门一：回链已写入，直接返回已有订单
	if p.IsLinked() {
		return d.FindByPaymentID(ctx, p.ID)
	}

	// 闸门二：订单已存在但回链缺失（插入与回链之间崩溃），补写回链
	rec, err := d.FindByPaymentID(ctx, p.ID)
	if err == nil {
		_, linkErr := f.payments.LinkFulfillment(ctx, nil, p.ID, rec.ID, rec.Type)
		logger.LogIf(linkErr)
		return rec, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	pending, err := d.ResolveOrder(ctx, p, GenerateOrderNumber(p.OrderType()))
	if err != nil {
		if errors.Is(err, errs.ErrUnresolvableBooking) {
			// 支付保持 completed，标记人工对账，绝不自动退款
			logger.LogIf(f.payments.FlagForReview(ctx, p.ID, "unresolvable booking: "+err.Error()))
		}
		return nil, err
	}

	// 订单插入与回链写入同事务
	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		rec, txErr = pending.Insert(ctx, tx)
		if txErr != nil {
			return txErr
		}
		linked, txErr := f.payments.LinkFulfillment(ctx, tx, p.ID, rec.ID, rec.Type)
		if txErr != nil {
			return txErr
		}
		if !linked {
			// 并发对手已写入回链，回滚本次插入走回读路径
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	if err != nil {
		// 闸门三：payment_id 唯一约束被并发对手抢先，回读即为结果
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return d.FindByPaymentID(ctx, p.ID)
		}
		return nil, err
	}

	logger.InfoString("履约", "Finalize",
		fmt.Sprintf("支付 %s 已履约为 %s 订单 %s", p.Reference, rec.Type, rec.OrderNumber))
	return rec, nil
}
