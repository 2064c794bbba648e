package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/app/models/user"
	"shine/pkg/errs"
)

func TestGetSpecialistChecksRole(t *testing.T) {
	db := newTestDB(t, &user.User{})
	repo := NewUserRepositoryWithDB(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&user.User{
		ID:       "sp-1",
		Email:    "sp@example.com",
		Nickname: "美甲师小王",
		Role:     user.RoleSpecialist,
	}).Error)
	require.NoError(t, db.Create(&user.User{
		ID:    "cl-1",
		Email: "client@example.com",
		Role:  user.RoleClient,
	}).Error)

	sp, err := repo.GetSpecialist(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, "美甲师小王", sp.Nickname)

	// 普通客户与不存在的 ID 都按未找到处理
	_, err = repo.GetSpecialist(ctx, "cl-1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = repo.GetSpecialist(ctx, "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
