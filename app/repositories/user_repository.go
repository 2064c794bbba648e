package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shine/app/models/user"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// UserRepository 用户仓库，客户与专家共用
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建仓库实例
func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.DB}
}

// NewUserRepositoryWithDB 指定数据库连接创建仓库实例
func NewUserRepositoryWithDB(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// GetSpecialist 获取专家用户，角色不符时按不存在处理
func (r *UserRepository) GetSpecialist(ctx context.Context, id string) (*user.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsSpecialist() {
		return nil, fmt.Errorf("user %s is not a specialist: %w", id, errs.ErrNotFound)
	}
	return u, nil
}
