package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/app/models/payment"
	"shine/pkg/errs"
)

func newPaymentRepo(t *testing.T) *PaymentRepository {
	return NewPaymentRepositoryWithDB(newTestDB(t, &payment.Payment{}))
}

func pendingPayment(reference string, amount int64) *payment.Payment {
	return &payment.Payment{
		Reference: reference,
		UserID:    "user-1",
		Provider:  "paystack",
		Amount:    amount,
		Currency:  "NGN",
		Metadata:  payment.JSON{"type": "beauty"},
	}
}

func TestCreatePendingRejectsDuplicateReference(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))

	err := repo.CreatePending(ctx, pendingPayment("ref-1", 1000))
	assert.ErrorIs(t, err, errs.ErrDuplicateReference)
}

func TestMarkCompletedHappyPath(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))

	p, err := repo.MarkCompleted(ctx, "ref-1", 1000, nil)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted())
	assert.NotNil(t, p.PaidAt)
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))

	first, err := repo.MarkCompleted(ctx, "ref-1", 1000, nil)
	require.NoError(t, err)

	// 重复核验按成功处理，不产生任何变更
	second, err := repo.MarkCompleted(ctx, "ref-1", 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.PaidAt.Unix(), second.PaidAt.Unix())
}

func TestMarkCompletedAmountMismatch(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	// 台账入账 1000，网关只扣了 500（篡改展示价格的典型场景）
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))

	_, err := repo.MarkCompleted(ctx, "ref-1", 500, nil)
	assert.ErrorIs(t, err, errs.ErrAmountMismatch)

	// 记录保持 pending 并打上对账标记，绝不静默修正
	p, err := repo.GetByReference(ctx, "ref-1")
	require.NoError(t, err)
	assert.True(t, p.IsPending())
	assert.NotEmpty(t, p.FlaggedReason)
}

func TestTerminalTransitions(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))
	require.NoError(t, repo.MarkFailed(ctx, "ref-1"))

	// 重复标记同一终态按成功处理
	assert.NoError(t, repo.MarkFailed(ctx, "ref-1"))

	// failed 不允许再完成
	_, err := repo.MarkCompleted(ctx, "ref-1", 1000, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	// completed 永不回退
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-2", 1000)))
	_, err = repo.MarkCompleted(ctx, "ref-2", 1000, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.MarkCanceled(ctx, "ref-2"), errs.ErrInvalidStateTransition)
}

func TestLinkFulfillmentSetOnce(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("ref-1", 1000)))
	p, err := repo.MarkCompleted(ctx, "ref-1", 1000, nil)
	require.NoError(t, err)

	linked, err := repo.LinkFulfillment(ctx, nil, p.ID, 42, "beauty")
	require.NoError(t, err)
	assert.True(t, linked)

	// 回链只允许写一次
	linked, err = repo.LinkFulfillment(ctx, nil, p.ID, 99, "beauty")
	require.NoError(t, err)
	assert.False(t, linked)

	p, err = repo.GetByReference(ctx, "ref-1")
	require.NoError(t, err)
	require.NotNil(t, p.FulfillmentID)
	assert.Equal(t, uint64(42), *p.FulfillmentID)
}

func TestListForReconciliation(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	// 已完成且已关联：不在列表里
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("linked", 1000)))
	p, err := repo.MarkCompleted(ctx, "linked", 1000, nil)
	require.NoError(t, err)
	_, err = repo.LinkFulfillment(ctx, nil, p.ID, 1, "beauty")
	require.NoError(t, err)

	// 已完成但未关联：在列表里
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("orphan", 1000)))
	_, err = repo.MarkCompleted(ctx, "orphan", 1000, nil)
	require.NoError(t, err)

	// 金额不一致被标记：在列表里
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("flagged", 1000)))
	_, err = repo.MarkCompleted(ctx, "flagged", 500, nil)
	assert.ErrorIs(t, err, errs.ErrAmountMismatch)

	ps, err := repo.ListForReconciliation(ctx, 100)
	require.NoError(t, err)
	refs := make([]string, 0, len(ps))
	for _, item := range ps {
		refs = append(refs, item.Reference)
	}
	assert.ElementsMatch(t, []string{"orphan", "flagged"}, refs)
}

func TestSweepStalePending(t *testing.T) {
	repo := newPaymentRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePending(ctx, pendingPayment("stale", 1000)))
	require.NoError(t, repo.CreatePending(ctx, pendingPayment("fresh", 1000)))

	// 把 stale 的创建时间拨回 TTL 之前
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.db.Model(&payment.Payment{}).
		Where("reference = ?", "stale").
		Update("created_at", old).Error)

	n, err := repo.SweepStalePending(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	p, err := repo.GetByReference(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, string(payment.StatusCanceled), p.Status)

	p, err = repo.GetByReference(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, p.IsPending())
}
