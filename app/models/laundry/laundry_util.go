package laundry

import (
	"time"

	"shine/pkg/errs"
)

// Status 洗衣订单状态
// 流转（单向、逐级推进，不允许跳级）：
// pending_pickup → picked_up → washing → ready → out_for_delivery → delivered
// delivered 之前的任何状态均可取消；delivered/cancelled 为终态
type Status string

const (
	StatusPendingPickup  Status = "pending_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusWashing        Status = "washing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// forwardChain 正向状态链，Advance 只允许推进到相邻的下一个状态
var forwardChain = []Status{
	StatusPendingPickup,
	StatusPickedUp,
	StatusWashing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// NextStatus 返回当前状态的下一个相邻状态，终态返回空
func (o *LaundryOrder) NextStatus() Status {
	for i, s := range forwardChain {
		if o.Status == string(s) && i+1 < len(forwardChain) {
			return forwardChain[i+1]
		}
	}
	return ""
}

// AdvanceTo 推进到指定状态，只接受相邻的下一个状态，并盖上对应的时间戳
// 跳级、回退、对终态的任何操作都会被拒绝
func (o *LaundryOrder) AdvanceTo(target Status) error {
	if o.IsTerminal() {
		return errs.ErrInvalidStateTransition
	}
	if target != o.NextStatus() {
		return errs.ErrInvalidStateTransition
	}

	now := time.Now()
	switch target {
	case StatusPickedUp:
		o.PickupCompletedAt = &now
	case StatusWashing:
		o.WashingStartedAt = &now
	case StatusReady:
		o.ReadyAt = &now
	case StatusOutForDelivery:
		o.OutForDeliveryAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	default:
		return errs.ErrInvalidStateTransition
	}

	o.Status = string(target)
	return nil
}

// Advance 推进到下一个相邻状态
func (o *LaundryOrder) Advance() error {
	next := o.NextStatus()
	if next == "" {
		return errs.ErrInvalidStateTransition
	}
	return o.AdvanceTo(next)
}

// Cancel 取消订单，delivered 之前的任何状态均可
func (o *LaundryOrder) Cancel() error {
	if o.IsTerminal() {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	o.Status = string(StatusCancelled)
	o.CancelledAt = &now
	return nil
}

// IsTerminal 是否处于终态
func (o *LaundryOrder) IsTerminal() bool {
	return o.Status == string(StatusDelivered) || o.Status == string(StatusCancelled)
}
