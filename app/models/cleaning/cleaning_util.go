package cleaning

import (
	"time"

	"shine/pkg/errs"
)

// Status 保洁订单状态
// 流转：pending → confirmed → in_progress → completed；pending/confirmed → canceled
// completed 与 canceled 为终态
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

// Confirm 确认订单，仅允许从 pending 流转
func (o *CleaningOrder) Confirm() error {
	if o.Status != string(StatusPending) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	o.Status = string(StatusConfirmed)
	o.ConfirmedAt = &now
	return nil
}

// Start 开始服务，仅允许从 confirmed 流转
func (o *CleaningOrder) Start() error {
	if o.Status != string(StatusConfirmed) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	o.Status = string(StatusInProgress)
	o.StartedAt = &now
	return nil
}

// Complete 完成服务，仅允许从 in_progress 流转
func (o *CleaningOrder) Complete() error {
	if o.Status != string(StatusInProgress) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	o.Status = string(StatusCompleted)
	o.CompletedAt = &now
	return nil
}

// Cancel 取消订单，仅 pending/confirmed 可取消
func (o *CleaningOrder) Cancel() error {
	if o.Status != string(StatusPending) && o.Status != string(StatusConfirmed) {
		return errs.ErrInvalidStateTransition
	}
	now := time.Now()
	o.Status = string(StatusCanceled)
	o.CanceledAt = &now
	return nil
}

// IsTerminal 是否处于终态
func (o *CleaningOrder) IsTerminal() bool {
	return o.Status == string(StatusCompleted) || o.Status == string(StatusCanceled)
}
