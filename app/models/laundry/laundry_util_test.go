package laundry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/pkg/errs"
)

func TestAdvanceWalksTheFullChain(t *testing.T) {
	o := &LaundryOrder{Status: string(StatusPendingPickup)}

	want := []Status{StatusPickedUp, StatusWashing, StatusReady, StatusOutForDelivery, StatusDelivered}
	for _, s := range want {
		require.NoError(t, o.Advance())
		assert.Equal(t, string(s), o.Status)
	}

	// 每个正向流转都盖了自己的时间戳
	assert.NotNil(t, o.PickupCompletedAt)
	assert.NotNil(t, o.WashingStartedAt)
	assert.NotNil(t, o.ReadyAt)
	assert.NotNil(t, o.OutForDeliveryAt)
	assert.NotNil(t, o.DeliveredAt)

	// 送达后不能再推进
	assert.ErrorIs(t, o.Advance(), errs.ErrInvalidStateTransition)
}

func TestAdvanceToRejectsSkipsAndBackwards(t *testing.T) {
	o := &LaundryOrder{Status: string(StatusPickedUp)}

	// 跳级
	assert.ErrorIs(t, o.AdvanceTo(StatusReady), errs.ErrInvalidStateTransition)
	// 回退
	assert.ErrorIs(t, o.AdvanceTo(StatusPendingPickup), errs.ErrInvalidStateTransition)
	// 原地
	assert.ErrorIs(t, o.AdvanceTo(StatusPickedUp), errs.ErrInvalidStateTransition)

	// 状态没被动过
	assert.Equal(t, string(StatusPickedUp), o.Status)
}

func TestCancelBeforeDelivery(t *testing.T) {
	for _, s := range []Status{StatusPendingPickup, StatusPickedUp, StatusWashing, StatusReady, StatusOutForDelivery} {
		o := &LaundryOrder{Status: string(s)}
		require.NoError(t, o.Cancel(), "status %s should be cancellable", s)
		assert.Equal(t, string(StatusCancelled), o.Status)
		assert.NotNil(t, o.CancelledAt)
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusCancelled} {
		o := &LaundryOrder{Status: string(s)}
		assert.ErrorIs(t, o.Advance(), errs.ErrInvalidStateTransition)
		assert.ErrorIs(t, o.Cancel(), errs.ErrInvalidStateTransition)
	}
}
