package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shine/app/models/catalog"
	"shine/pkg/database"
	"shine/pkg/errs"
)

// CatalogRepository 服务目录仓库，履约器解析预约元数据时使用
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建仓库实例
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{db: database.DB}
}

// NewCatalogRepositoryWithDB 指定数据库连接创建仓库实例
func NewCatalogRepositoryWithDB(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetServiceTypes 批量解析美容服务子项，任何一个不存在都会失败
// 下单到支付之间目录项可能被删除，这类支付进入人工对账
func (r *CatalogRepository) GetServiceTypes(ctx context.Context, ids []uint64) ([]catalog.ServiceType, error) {
	// 元数据可能重复选择同一个子项，IN 查询只会返回一行，先去重再比对
	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var sts []catalog.ServiceType
	if err := r.db.WithContext(ctx).Where("id IN ?", unique).Find(&sts).Error; err != nil {
		return nil, err
	}
	if len(sts) != len(unique) {
		return nil, fmt.Errorf("service types %v: %d of %d resolvable: %w",
			unique, len(sts), len(unique), errs.ErrUnresolvableBooking)
	}
	return sts, nil
}

// GetBeautyService 解析美容服务主项
func (r *CatalogRepository) GetBeautyService(ctx context.Context, id uint64) (*catalog.BeautyService, error) {
	var s catalog.BeautyService
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beauty service %d: %w", id, errs.ErrUnresolvableBooking)
		}
		return nil, err
	}
	return &s, nil
}

// GetCleaningService 解析保洁固定服务项
func (r *CatalogRepository) GetCleaningService(ctx context.Context, id uint64) (*catalog.CleaningService, error) {
	var s catalog.CleaningService
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cleaning service %d: %w", id, errs.ErrUnresolvableBooking)
		}
		return nil, err
	}
	return &s, nil
}
