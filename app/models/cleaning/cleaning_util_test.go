package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/pkg/errs"
)

func TestLifecycle(t *testing.T) {
	o := &CleaningOrder{Status: string(StatusPending)}

	require.NoError(t, o.Confirm())
	require.NoError(t, o.Start())
	require.NoError(t, o.Complete())

	assert.NotNil(t, o.ConfirmedAt)
	assert.NotNil(t, o.StartedAt)
	assert.NotNil(t, o.CompletedAt)
	assert.True(t, o.IsTerminal())
}

func TestIllegalTransitions(t *testing.T) {
	// 跳过确认直接开工
	o := &CleaningOrder{Status: string(StatusPending)}
	assert.ErrorIs(t, o.Start(), errs.ErrInvalidStateTransition)

	// 开工后不能取消
	o = &CleaningOrder{Status: string(StatusInProgress)}
	assert.ErrorIs(t, o.Cancel(), errs.ErrInvalidStateTransition)

	// 终态不接受任何流转
	for _, s := range []Status{StatusCompleted, StatusCanceled} {
		o = &CleaningOrder{Status: string(s)}
		assert.ErrorIs(t, o.Confirm(), errs.ErrInvalidStateTransition)
		assert.ErrorIs(t, o.Cancel(), errs.ErrInvalidStateTransition)
	}
}
