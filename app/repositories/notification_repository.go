package repositories

import (
	"context"

	"gorm.io/gorm"

	"shine/app/models/notification"
	"shine/pkg/database"
)

// NotificationRepository 通知记录仓库
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建仓库实例
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{db: database.DB}
}

// NewNotificationRepositoryWithDB 指定数据库连接创建仓库实例
func NewNotificationRepositoryWithDB(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create 落库一条通知
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByRecipient 收件人的通知列表
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	var ns []notification.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}
