package appointment

import (
	"time"

	"shine/pkg/errs"
)

// Status 预约状态
// 流转：pending → confirmed → completed；pending/confirmed → canceled
// completed 与 canceled 为终态
type Status string

const (
	StatusPending   Status = "pending"   // 待确认
	StatusConfirmed Status = "confirmed" // 已确认，订单号对客户可见
	StatusCompleted Status = "completed" // 已完成，唯一触发结算的状态
	StatusCanceled  Status = "canceled"  // 已取消
)

// Confirm 确认预约，仅允许从 pending 流转
func (a *Appointment) Confirm() error {
	if a.Status != string(StatusPending) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	a.Status = string(StatusConfirmed)
	a.ConfirmedAt = &now
	return nil
}

// Complete 完成预约，仅允许从 confirmed 流转，完成后触发专家收入结算
func (a *Appointment) Complete() error {
	if a.Status != string(StatusConfirmed) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	a.Status = string(StatusCompleted)
	a.CompletedAt = &now
	return nil
}

// Cancel 取消预约，pending/confirmed 均可取消，终态不可取消
func (a *Appointment) Cancel() error {
	if a.Status != string(StatusPending) && a.Status != string(StatusConfirmed) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	a.Status = string(StatusCanceled)
	a.CanceledAt = &now
	return nil
}

// IsTerminal 是否处于终态
func (a *Appointment) IsTerminal() bool {
	return a.Status == string(StatusCompleted) || a.Status == string(StatusCanceled)
}
