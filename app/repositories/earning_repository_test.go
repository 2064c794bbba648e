package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/app/models/earning"
)

func availableEarning(paymentID uint64, net int64) *earning.Earning {
	return &earning.Earning{
		PaymentID:             paymentID,
		SpecialistID:          "sp-1",
		GrossAmount:           net + 100,
		PlatformFeeAmount:     100,
		NetAmount:             net,
		PlatformFeePercentage: 15,
		Status:                string(earning.StatusAvailable),
	}
}

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	repo := NewEarningRepositoryWithDB(newTestDB(t, &earning.Earning{}))
	ctx := context.Background()

	first, inserted, err := repo.CreateIfAbsent(ctx, availableEarning(7, 900))
	require.NoError(t, err)
	assert.True(t, inserted)

	// 同一笔支付的第二次结算不产生新记录
	second, inserted, err := repo.CreateIfAbsent(ctx, availableEarning(7, 900))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateIfAbsentRejectsBrokenInvariant(t *testing.T) {
	repo := NewEarningRepositoryWithDB(newTestDB(t, &earning.Earning{}))

	e := availableEarning(7, 900)
	e.NetAmount = 800 // gross != fee + net

	_, _, err := repo.CreateIfAbsent(context.Background(), e)
	assert.Error(t, err)
}

func TestTotalAvailableSumsOnlyAvailable(t *testing.T) {
	repo := NewEarningRepositoryWithDB(newTestDB(t, &earning.Earning{}))
	ctx := context.Background()

	_, _, err := repo.CreateIfAbsent(ctx, availableEarning(1, 900))
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, availableEarning(2, 600))
	require.NoError(t, err)

	withheld := availableEarning(3, 500)
	withheld.Status = string(earning.StatusWithheld)
	_, _, err = repo.CreateIfAbsent(ctx, withheld)
	require.NoError(t, err)

	total, err := repo.TotalAvailable(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), total)
}
