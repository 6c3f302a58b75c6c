package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

type notificationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNotificationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) NotificationService {
	return &notificationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// Create stores a notification for another user. Manager-only; the
// event consumer path writes rows directly through the repository.
func (s *notificationService) Create(ctx context.Context, actor *Actor, req *CreateNotificationRequest) (*models.Notification, error) {
	if !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, req.UserID, "notification", "create", "manager role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &repositories.DanglingReferenceError{Field: "user_id"}
		}
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Info("Notification created", "notification_id", notification.ID, "user_id", req.UserID)
	return notification, nil
}

// ListMine returns the actor's own notifications.
func (s *notificationService) ListMine(ctx context.Context, actor *Actor, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, actor.UserID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		Size:          size,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor *Actor, id uint) error {
	notification, err := s.repo.Notification().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != actor.UserID {
		return NewPermissionError(actor.UserID, id, "notification", "mark_read", "not the recipient")
	}

	if err := s.repo.Notification().MarkRead(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
