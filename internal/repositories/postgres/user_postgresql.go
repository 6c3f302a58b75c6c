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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return repositories.TranslateWriteError(err, "email")
	}
	cache.SafeInvalidatePattern(ctx, u.cacheManager.User, "list:*")
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByIDWithRole loads the user together with its role record, cached
// because middleware resolves the actor on every authenticated request.
func (u *UserPostgreSQL) GetByIDWithRole(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("role:%d:full", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		err := u.db.WithContext(ctx).
			Preload("Manager").
			Preload("Facilitator").
			Preload("Student").
			First(&dbUser, id).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get user with role: %w", err)
		}
		return &dbUser, nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	limit, offset := NormalizePage(filters.Limit, filters.Offset)

	var users []*models.User
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	result := u.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return repositories.TranslateWriteError(result.Error, "email")
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := u.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return repositories.TranslateDeleteError(result.Error, "user", "course offerings")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, id)
	return nil
}

func (u *UserPostgreSQL) CreateManager(ctx context.Context, m *models.Manager) error {
	if err := u.db.WithContext(ctx).Create(m).Error; err != nil {
		return repositories.TranslateWriteError(err, "user_id")
	}
	return nil
}

func (u *UserPostgreSQL) CreateFacilitator(ctx context.Context, f *models.Facilitator) error {
	if err := u.db.WithContext(ctx).Create(f).Error; err != nil {
		return repositories.TranslateWriteError(err, "employee_id")
	}
	return nil
}

func (u *UserPostgreSQL) CreateStudent(ctx context.Context, s *models.Student) error {
	if err := u.db.WithContext(ctx).Create(s).Error; err != nil {
		return repositories.TranslateWriteError(err, "student_id")
	}
	return nil
}

func (u *UserPostgreSQL) GetManagerByUserID(ctx context.Context, userID uint) (*models.Manager, error) {
	var m models.Manager
	err := u.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	return &m, nil
}

func (u *UserPostgreSQL) GetFacilitatorByUserID(ctx context.Context, userID uint) (*models.Facilitator, error) {
	var f models.Facilitator
	err := u.db.WithContext(ctx).Where("user_id = ?", userID).First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get facilitator: %w", err)
	}
	return &f, nil
}

func (u *UserPostgreSQL) GetFacilitatorByID(ctx context.Context, id uint) (*models.Facilitator, error) {
	var f models.Facilitator
	err := u.db.WithContext(ctx).Preload("User").First(&f, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get facilitator: %w", err)
	}
	return &f, nil
}

func (u *UserPostgreSQL) GetStudentByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	var s models.Student
	err := u.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

func (u *UserPostgreSQL) ListFacilitators(ctx context.Context) ([]*models.Facilitator, error) {
	var facilitators []*models.Facilitator
	err := u.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&facilitators).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list facilitators: %w", err)
	}
	return facilitators, nil
}
