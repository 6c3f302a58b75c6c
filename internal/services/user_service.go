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

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// GetByID returns a user profile. Non-managers may only read themselves.
func (s *userService) GetByID(ctx context.Context, actor *Actor, id uint) (*models.User, error) {
	if !actor.IsManager() && actor.UserID != id {
		return nil, NewPermissionError(actor.UserID, id, "user", "read", "not self and not a manager")
	}

	user, err := s.repo.User().GetByIDWithRole(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor *Actor, filters repositories.UserFilters) (*UserListResponse, error) {
	if !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, 0, "user", "list", "manager role required")
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

// ListFacilitators is available to managers when assigning offerings.
func (s *userService) ListFacilitators(ctx context.Context, actor *Actor) ([]*models.Facilitator, error) {
	if !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, 0, "facilitator", "list", "manager role required")
	}

	facilitators, err := s.repo.User().ListFacilitators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facilitators: %w", err)
	}
	return facilitators, nil
}

func (s *userService) Update(ctx context.Context, actor *Actor, id uint, req *UpdateUserRequest) (*models.User, error) {
	if !actor.IsManager() && actor.UserID != id {
		return nil, NewPermissionError(actor.UserID, id, "user", "update", "not self and not a manager")
	}
	// Only managers may toggle account status.
	if req.IsActive != nil && !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, id, "user", "update", "only managers can change account status")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", user.ID, "by", actor.UserID)
	return user, nil
}

// Delete removes the user row; the role record goes with it via the
// cascading foreign key. A facilitator still referenced by course
// offerings cannot be deleted, only deactivated through Update.
func (s *userService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if !actor.IsManager() {
		return NewPermissionError(actor.UserID, id, "user", "delete", "manager role required")
	}

	if _, err := s.repo.User().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info("User deleted", "user_id", id, "by", actor.UserID)
	return nil
}

// pageFromOffset derives 1-based page numbers for list responses.
func pageFromOffset(limit, offset int) (page, size int) {
	if limit <= 0 {
		limit = 20
	}
	return offset/limit + 1, limit
}
