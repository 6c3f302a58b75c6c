package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/cache"
	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

type OfferingPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewOfferingPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.OfferingRepository {
	return &OfferingPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (o *OfferingPostgreSQL) Create(ctx context.Context, offering *models.CourseOffering) error {
	if err := o.db.WithContext(ctx).Create(offering).Error; err != nil {
		return repositories.TranslateWriteError(err, "course_unique_index")
	}
	cache.InvalidateOfferingCache(ctx, o.cacheManager, offering.ID, offering.FacilitatorID)
	return nil
}

func (o *OfferingPostgreSQL) GetByID(ctx context.Context, id uint) (*models.CourseOffering, error) {
	var offering models.CourseOffering
	err := o.db.WithContext(ctx).First(&offering, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return &offering, nil
}

// GetByIDWithDetails loads the offering with all catalog relations, cached
// because detail pages hit this on every render.
func (o *OfferingPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.CourseOffering, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var offering models.CourseOffering

	err := o.cacheManager.Offering.CacheOrExecute(ctx, cacheKey, &offering, cache.OfferingCacheConfig.TTL, func() (interface{}, error) {
		var dbOffering models.CourseOffering
		err := o.db.WithContext(ctx).
			Preload("Module").
			Preload("Class").
			Preload("Cohort").
			Preload("Mode").
			Preload("Facilitator").
			Preload("Facilitator.User").
			First(&dbOffering, id).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get offering details: %w", err)
		}
		return &dbOffering, nil
	})

	if err != nil {
		return nil, err
	}
	return &offering, nil
}

func (o *OfferingPostgreSQL) List(ctx context.Context, filters repositories.OfferingFilters) ([]*models.CourseOffering, int64, error) {
	query := o.db.WithContext(ctx).Model(&models.CourseOffering{})
	query = o.helpers.ApplyOfferingFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count offerings: %w", err)
	}

	query = o.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var offerings []*models.CourseOffering
	err := query.
		Preload("Module").
		Preload("Class").
		Preload("Cohort").
		Preload("Mode").
		Find(&offerings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offerings: %w", err)
	}

	return offerings, total, nil
}

func (o *OfferingPostgreSQL) Update(ctx context.Context, offering *models.CourseOffering) error {
	if err := o.db.WithContext(ctx).Save(offering).Error; err != nil {
		return repositories.TranslateWriteError(err, "course_unique_index")
	}
	cache.InvalidateOfferingCache(ctx, o.cacheManager, offering.ID, offering.FacilitatorID)
	return nil
}

func (o *OfferingPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := o.db.WithContext(ctx).Delete(&models.CourseOffering{}, id)
	if result.Error != nil {
		return repositories.TranslateDeleteError(result.Error, "course offering", "activity trackers")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.SafeInvalidatePattern(ctx, o.cacheManager.Offering, "*")
	return nil
}

func (o *OfferingPostgreSQL) ActiveExists(ctx context.Context, key repositories.OfferingKey, excludeID uint) (bool, error) {
	query := o.db.WithContext(ctx).
		Model(&models.CourseOffering{}).
		Where("module_id = ? AND class_id = ? AND cohort_id = ? AND trimester = ? AND intake_period = ?",
			key.ModuleID, key.ClassID, key.CohortID, key.Trimester, key.IntakePeriod).
		Where("is_active = ?", true)

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check offering uniqueness: %w", err)
	}
	return count > 0, nil
}

func (o *OfferingPostgreSQL) GetByFacilitator(ctx context.Context, facilitatorID uint, filters repositories.OfferingFilters) ([]*models.CourseOffering, int64, error) {
	filters.FacilitatorID = &facilitatorID
	return o.List(ctx, filters)
}

func (o *OfferingPostgreSQL) CountByFacilitator(ctx context.Context, facilitatorID uint) (int64, error) {
	var count int64
	err := o.db.WithContext(ctx).
		Model(&models.CourseOffering{}).
		Where("facilitator_id = ?", facilitatorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count facilitator offerings: %w", err)
	}
	return count, nil
}
