package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Create(notification).Error; err != nil {
		return repositories.TranslateWriteError(err, "user_id")
	}
	return nil
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := n.db.WithContext(ctx).First(&notification, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	query := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID)

	if filters.IsRead != nil {
		query = query.Where("is_read = ?", *filters.IsRead)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	limit, offset := NormalizePage(filters.Limit, filters.Offset)

	var notifications []*models.Notification
	err := query.
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint) error {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
