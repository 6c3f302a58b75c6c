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

// CatalogPostgreSQL stores the reference entities offerings are built
// from: cohorts, classes, modules and delivery modes.
type CatalogPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCatalogPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CatalogRepository {
	return &CatalogPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ----- Cohorts -----

func (c *CatalogPostgreSQL) CreateCohort(ctx context.Context, cohort *models.Cohort) error {
	if err := c.db.WithContext(ctx).Create(cohort).Error; err != nil {
		return repositories.TranslateWriteError(err, "name")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "cohort")
	return nil
}

func (c *CatalogPostgreSQL) GetCohort(ctx context.Context, id uint) (*models.Cohort, error) {
	var cohort models.Cohort
	err := c.db.WithContext(ctx).First(&cohort, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cohort: %w", err)
	}
	return &cohort, nil
}

func (c *CatalogPostgreSQL) ListCohorts(ctx context.Context) ([]*models.Cohort, error) {
	cacheKey := "cohort:list"
	var cohorts []*models.Cohort

	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &cohorts, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbCohorts []*models.Cohort
		if err := c.db.WithContext(ctx).Order("start_date DESC").Find(&dbCohorts).Error; err != nil {
			return nil, fmt.Errorf("failed to list cohorts: %w", err)
		}
		return dbCohorts, nil
	})
	if err != nil {
		return nil, err
	}
	return cohorts, nil
}

func (c *CatalogPostgreSQL) UpdateCohort(ctx context.Context, cohort *models.Cohort) error {
	if err := c.db.WithContext(ctx).Save(cohort).Error; err != nil {
		return repositories.TranslateWriteError(err, "name")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "cohort")
	return nil
}

func (c *CatalogPostgreSQL) DeleteCohort(ctx context.Context, id uint) error {
	return c.deleteCatalogEntity(ctx, &models.Cohort{}, id, "cohort")
}

// ----- Classes -----

func (c *CatalogPostgreSQL) CreateClass(ctx context.Context, class *models.Class) error {
	if err := c.db.WithContext(ctx).Create(class).Error; err != nil {
		return repositories.TranslateWriteError(err, "name")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "class")
	return nil
}

func (c *CatalogPostgreSQL) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	var class models.Class
	err := c.db.WithContext(ctx).First(&class, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

func (c *CatalogPostgreSQL) ListClasses(ctx context.Context) ([]*models.Class, error) {
	cacheKey := "class:list"
	var classes []*models.Class

	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &classes, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbClasses []*models.Class
		if err := c.db.WithContext(ctx).Order("year DESC, name ASC").Find(&dbClasses).Error; err != nil {
			return nil, fmt.Errorf("failed to list classes: %w", err)
		}
		return dbClasses, nil
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *CatalogPostgreSQL) UpdateClass(ctx context.Context, class *models.Class) error {
	if err := c.db.WithContext(ctx).Save(class).Error; err != nil {
		return repositories.TranslateWriteError(err, "name")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "class")
	return nil
}

func (c *CatalogPostgreSQL) DeleteClass(ctx context.Context, id uint) error {
	return c.deleteCatalogEntity(ctx, &models.Class{}, id, "class")
}

// ----- Modules -----

func (c *CatalogPostgreSQL) CreateModule(ctx context.Context, module *models.Module) error {
	if err := c.db.WithContext(ctx).Create(module).Error; err != nil {
		return repositories.TranslateWriteError(err, "code")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "module")
	return nil
}

func (c *CatalogPostgreSQL) GetModule(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	err := c.db.WithContext(ctx).First(&module, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &module, nil
}

func (c *CatalogPostgreSQL) ListModules(ctx context.Context) ([]*models.Module, error) {
	cacheKey := "module:list"
	var modules []*models.Module

	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &modules, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbModules []*models.Module
		if err := c.db.WithContext(ctx).Order("code ASC").Find(&dbModules).Error; err != nil {
			return nil, fmt.Errorf("failed to list modules: %w", err)
		}
		return dbModules, nil
	})
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *CatalogPostgreSQL) UpdateModule(ctx context.Context, module *models.Module) error {
	if err := c.db.WithContext(ctx).Save(module).Error; err != nil {
		return repositories.TranslateWriteError(err, "code")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "module")
	return nil
}

func (c *CatalogPostgreSQL) DeleteModule(ctx context.Context, id uint) error {
	return c.deleteCatalogEntity(ctx, &models.Module{}, id, "module")
}

// ----- Modes -----

func (c *CatalogPostgreSQL) CreateMode(ctx context.Context, mode *models.Mode) error {
	if err := c.db.WithContext(ctx).Create(mode).Error; err != nil {
		return repositories.TranslateWriteError(err, "name")
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, "mode")
	return nil
}

func (c *CatalogPostgreSQL) GetMode(ctx context.Context, id uint) (*models.Mode, error) {
	var mode models.Mode
	err := c.db.WithContext(ctx).First(&mode, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mode: %w", err)
	}
	return &mode, nil
}

func (c *CatalogPostgreSQL) ListModes(ctx context.Context) ([]*models.Mode, error) {
	cacheKey := "mode:list"
	var modes []*models.Mode

	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &modes, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbModes []*models.Mode
		if err := c.db.WithContext(ctx).Order("name ASC").Find(&dbModes).Error; err != nil {
			return nil, fmt.Errorf("failed to list modes: %w", err)
		}
		return dbModes, nil
	})
	if err != nil {
		return nil, err
	}
	return modes, nil
}

func (c *CatalogPostgreSQL) DeleteMode(ctx context.Context, id uint) error {
	return c.deleteCatalogEntity(ctx, &models.Mode{}, id, "mode")
}

// deleteCatalogEntity removes a catalog row, translating foreign key
// violations from offerings that still reference it.
func (c *CatalogPostgreSQL) deleteCatalogEntity(ctx context.Context, model interface{}, id uint, entity string) error {
	result := c.db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return repositories.TranslateDeleteError(result.Error, entity, "course offerings")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateCatalogCache(ctx, c.cacheManager, entity)
	return nil
}
