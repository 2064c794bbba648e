package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/pkg/errs"
)

func TestLifecycle(t *testing.T) {
	a := &Appointment{Status: string(StatusPending)}

	require.NoError(t, a.Confirm())
	assert.NotNil(t, a.ConfirmedAt)

	require.NoError(t, a.Complete())
	assert.NotNil(t, a.CompletedAt)
	assert.True(t, a.IsTerminal())
}

func TestIllegalTransitions(t *testing.T) {
	// 未确认不能完成
	a := &Appointment{Status: string(StatusPending)}
	assert.ErrorIs(t, a.Complete(), errs.ErrInvalidStateTransition)

	// 已确认不能再确认
	a = &Appointment{Status: string(StatusConfirmed)}
	assert.ErrorIs(t, a.Confirm(), errs.ErrInvalidStateTransition)

	// 终态不能取消
	for _, s := range []Status{StatusCompleted, StatusCanceled} {
		a = &Appointment{Status: string(s)}
		assert.ErrorIs(t, a.Cancel(), errs.ErrInvalidStateTransition)
	}
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed} {
		a := &Appointment{Status: string(s)}
		require.NoError(t, a.Cancel())
		assert.Equal(t, string(StatusCanceled), a.Status)
		assert.NotNil(t, a.CanceledAt)
	}
}
