package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/app/models/catalog"
	"shine/pkg/errs"
)

func TestGetServiceTypesToleratesDuplicateIDs(t *testing.T) {
	db := newTestDB(t, &catalog.ServiceType{})
	repo := NewCatalogRepositoryWithDB(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&catalog.ServiceType{ID: 1, ServiceID: 1, Name: "基础款", Price: 6000}).Error)
	require.NoError(t, db.Create(&catalog.ServiceType{ID: 2, ServiceID: 1, Name: "雕花", Price: 4000}).Error)

	// 同一个子项被重复选择不构成无法解析
	sts, err := repo.GetServiceTypes(ctx, []uint64{1, 1, 2})
	require.NoError(t, err)
	assert.Len(t, sts, 2)

	// 引用不存在的子项仍然要失败
	_, err = repo.GetServiceTypes(ctx, []uint64{1, 99})
	assert.ErrorIs(t, err, errs.ErrUnresolvableBooking)
}
