package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/app/models/earning"
	"shine/app/models/payment"
	"shine/app/repositories"
)

func TestComputeFeeRounding(t *testing.T) {
	cases := []struct {
		name    string
		gross   int64
		percent int64
		fee     int64
		net     int64
	}{
		{"整除", 10000, 15, 1500, 8500},
		{"半数进位", 10, 15, 2, 8},       // 1.5 → 2
		{"向下取整", 333, 10, 33, 300},    // 33.3 → 33
		{"向上取整", 333, 15, 50, 283},    // 49.95 → 50
		{"零抽成", 10000, 0, 0, 10000},
		{"全抽成", 10000, 100, 10000, 0},
		{"一分钱", 1, 15, 0, 1}, // 0.15 → 0
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, net := ComputeFee(tc.gross, tc.percent)
			assert.Equal(t, tc.fee, fee)
			assert.Equal(t, tc.net, net)
			// 任何输入下金额不变量都成立
			assert.Equal(t, tc.gross, fee+net)
		})
	}
}

func TestSettleCreatesEarningOnce(t *testing.T) {
	db := newTestDB(t, &earning.Earning{}, &payment.Payment{})
	svc := NewSettlementService(
		repositories.NewEarningRepositoryWithDB(db),
		repositories.NewPaymentRepositoryWithDB(db))
	ctx := context.Background()

	p := &payment.Payment{
		ID:        5,
		Reference: "ref-1",
		Amount:    10000,
		Currency:  "NGN",
		Status:    string(payment.StatusCompleted),
	}

	e, err := svc.Settle(ctx, p, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), e.GrossAmount)
	assert.Equal(t, int64(1500), e.PlatformFeeAmount)
	assert.Equal(t, int64(8500), e.NetAmount)
	assert.Equal(t, string(earning.StatusAvailable), e.Status)

	// 重复结算是 no-op，返回已有记录
	again, err := svc.Settle(ctx, p, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&earning.Earning{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleRequiresCompletedPaymentAndSpecialist(t *testing.T) {
	db := newTestDB(t, &earning.Earning{}, &payment.Payment{})
	svc := NewSettlementService(
		repositories.NewEarningRepositoryWithDB(db),
		repositories.NewPaymentRepositoryWithDB(db))
	ctx := context.Background()

	pending := &payment.Payment{ID: 1, Reference: "ref-1", Amount: 1000, Status: string(payment.StatusPending)}
	_, err := svc.Settle(ctx, pending, "sp-1")
	assert.Error(t, err)

	completed := &payment.Payment{ID: 2, Reference: "ref-2", Amount: 1000, Status: string(payment.StatusCompleted)}
	_, err = svc.Settle(ctx, completed, "")
	assert.Error(t, err)
}

func TestSettleOrFlagMarksPaymentForReview(t *testing.T) {
	// 故意不迁移收入表：结算写入必然失败，
	// 失败必须在支付上留下对账标记而不是只剩一行日志
	db := newTestDB(t, &payment.Payment{})
	payments := repositories.NewPaymentRepositoryWithDB(db)
	svc := NewSettlementService(repositories.NewEarningRepositoryWithDB(db), payments)
	ctx := context.Background()

	p := &payment.Payment{
		Reference: "ref-flag",
		Amount:    1000,
		Currency:  "NGN",
		Status:    string(payment.StatusCompleted),
	}
	require.NoError(t, db.Create(p).Error)

	_, err := svc.SettleOrFlag(ctx, p, "sp-1")
	require.Error(t, err)

	// 标记落库，且出现在运营对账列表里
	flagged, err := payments.GetByReference(ctx, "ref-flag")
	require.NoError(t, err)
	assert.Contains(t, flagged.FlaggedReason, "settlement failed")

	list, err := payments.ListForReconciliation(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ref-flag", list[0].Reference)
}
