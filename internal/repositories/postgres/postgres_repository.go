package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/cache"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user         repositories.UserRepository
	catalog      repositories.CatalogRepository
	offering     repositories.OfferingRepository
	activity     repositories.ActivityRepository
	notification repositories.NotificationRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB, config.RedisClient)
	repo.catalog = NewCatalogPostgreSQL(config.DB, config.RedisClient)
	repo.offering = NewOfferingPostgreSQL(config.DB, config.RedisClient)
	repo.activity = NewActivityPostgreSQL(config.DB, config.RedisClient)
	repo.notification = NewNotificationPostgreSQL(config.DB)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Catalog() repositories.CatalogRepository {
	return r.catalog
}

func (r *PostgreSQLRepository) Offering() repositories.OfferingRepository {
	return r.offering
}

func (r *PostgreSQLRepository) Activity() repositories.ActivityRepository {
	return r.activity
}

func (r *PostgreSQLRepository) Notification() repositories.NotificationRepository {
	return r.notification
}

// WithTransaction executes a function within a database transaction.
// Sub-repositories are rebuilt against the transaction handle so every
// call inside fn shares it. Redis is skipped inside transactions so a
// rollback cannot leave stale cache entries behind.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		txRepo.user = NewUserPostgreSQL(tx, nil)
		txRepo.catalog = NewCatalogPostgreSQL(tx, nil)
		txRepo.offering = NewOfferingPostgreSQL(tx, nil)
		txRepo.activity = NewActivityPostgreSQL(tx, nil)
		txRepo.notification = NewNotificationPostgreSQL(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// Manager implements the RepositoryManager interface
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &Manager{
		config: config,
	}
}

// Initialize verifies connections and builds the repository instance
func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := m.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if m.config.RedisClient != nil {
		if _, err := m.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	m.repo = NewPostgreSQLRepository(m.config)

	return nil
}

// GetRepository returns the repository instance
func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

// HealthCheck checks the health of all repository connections
func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return m.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}

	return m.repo.Close()
}
