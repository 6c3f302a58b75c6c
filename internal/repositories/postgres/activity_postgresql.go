package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CMP-2025/course-activity-service/internal/cache"
	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

type ActivityPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewActivityPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ActivityRepository {
	return &ActivityPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Upsert inserts the tracker or, when a row already exists for the same
// (allocation_id, week_number), merges the submitted columns into it. The
// unique index is the serialization point, so concurrent submissions for
// the same week cannot produce two rows; the conflict update assigns only
// the columns the submission carried, so a racing insert cannot revert
// columns another submission just wrote.
func (a *ActivityPostgreSQL) Upsert(ctx context.Context, activity *models.ActivityTracker, fields []string) (bool, error) {
	var existing models.ActivityTracker
	err := a.db.WithContext(ctx).
		Where("allocation_id = ? AND week_number = ?", activity.AllocationID, activity.WeekNumber).
		First(&existing).Error

	created := err == gorm.ErrRecordNotFound
	if err != nil && !created {
		return false, fmt.Errorf("failed to check existing tracker: %w", err)
	}

	assigned := append(append([]string{}, fields...), "submitted_at", "updated_at")
	result := a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "allocation_id"}, {Name: "week_number"}},
		DoUpdates: clause.AssignmentColumns(assigned),
	}).Create(activity)
	if result.Error != nil {
		return false, repositories.TranslateWriteError(result.Error, "week_number")
	}

	cache.SafeInvalidatePattern(ctx, a.cacheManager.Fast, fmt.Sprintf("activity:allocation:%d:*", activity.AllocationID))
	return created, nil
}

func (a *ActivityPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ActivityTracker, error) {
	var activity models.ActivityTracker
	err := a.db.WithContext(ctx).First(&activity, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}
	return &activity, nil
}

// GetByIDWithOffering loads the tracker with its parent offering, needed
// by authorization checks that scope by the offering's facilitator.
func (a *ActivityPostgreSQL) GetByIDWithOffering(ctx context.Context, id uint) (*models.ActivityTracker, error) {
	var activity models.ActivityTracker
	err := a.db.WithContext(ctx).
		Preload("CourseOffering").
		First(&activity, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) GetByAllocationWeek(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error) {
	var activity models.ActivityTracker
	err := a.db.WithContext(ctx).
		Where("allocation_id = ? AND week_number = ?", allocationID, week).
		First(&activity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}
	return &activity, nil
}

// GetByAllocationWeekForUpdate takes a FOR UPDATE lock so a merge that
// read the row cannot be interleaved with another writer before it
// commits. Only meaningful when a.db is a transaction handle.
func (a *ActivityPostgreSQL) GetByAllocationWeekForUpdate(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error) {
	var activity models.ActivityTracker
	err := a.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("allocation_id = ? AND week_number = ?", allocationID, week).
		First(&activity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock activity tracker: %w", err)
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.ActivityTracker, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.ActivityTracker{})

	// Facilitator scoping joins through the offering.
	if filters.FacilitatorID != nil {
		query = query.
			Joins("JOIN course_offerings ON course_offerings.id = activity_trackers.allocation_id").
			Where("course_offerings.facilitator_id = ?", *filters.FacilitatorID)
	}
	query = a.helpers.ApplyActivityFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity trackers: %w", err)
	}

	limit, offset := NormalizePage(filters.Limit, filters.Offset)

	var activities []*models.ActivityTracker
	err := query.
		Order("allocation_id ASC, week_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity trackers: %w", err)
	}

	return activities, total, nil
}

func (a *ActivityPostgreSQL) Update(ctx context.Context, activity *models.ActivityTracker) error {
	if err := a.db.WithContext(ctx).Save(activity).Error; err != nil {
		return repositories.TranslateWriteError(err, "week_number")
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Fast, fmt.Sprintf("activity:allocation:%d:*", activity.AllocationID))
	return nil
}

func (a *ActivityPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.ActivityTracker{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete activity tracker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (a *ActivityPostgreSQL) CountByAllocation(ctx context.Context, allocationID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.ActivityTracker{}).
		Where("allocation_id = ?", allocationID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activity trackers: %w", err)
	}
	return count, nil
}
