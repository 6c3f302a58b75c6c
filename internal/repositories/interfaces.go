package repositories

import (
	"context"

	"github.com/CMP-2025/course-activity-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type OfferingFilters struct {
	Trimester     *models.Trimester    `json:"trimester"`
	IntakePeriod  *models.IntakePeriod `json:"intake_period"`
	CohortID      *uint                `json:"cohort_id"`
	FacilitatorID *uint                `json:"facilitator_id"`
	ModeID        *uint                `json:"mode_id"`
	IsActive      *bool                `json:"is_active"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
	SortBy        string               `json:"sort_by"`    // "start_date", "created_at"
	SortOrder     string               `json:"sort_order"` // "asc", "desc"
}

type ActivityFilters struct {
	AllocationID  *uint `json:"allocation_id"`
	WeekNumber    *int  `json:"week_number"`
	FacilitatorID *uint `json:"facilitator_id"`
	Limit         int   `json:"limit"`
	Offset        int   `json:"offset"`
}

type NotificationFilters struct {
	IsRead *bool                    `json:"is_read"`
	Type   *models.NotificationType `json:"type"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// OfferingKey is the uniqueness tuple of a course offering.
type OfferingKey struct {
	ModuleID     uint
	ClassID      uint
	CohortID     uint
	Trimester    models.Trimester
	IntakePeriod models.IntakePeriod
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDWithRole(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	CreateManager(ctx context.Context, m *models.Manager) error
	CreateFacilitator(ctx context.Context, f *models.Facilitator) error
	CreateStudent(ctx context.Context, s *models.Student) error
	GetManagerByUserID(ctx context.Context, userID uint) (*models.Manager, error)
	GetFacilitatorByUserID(ctx context.Context, userID uint) (*models.Facilitator, error)
	GetFacilitatorByID(ctx context.Context, id uint) (*models.Facilitator, error)
	GetStudentByUserID(ctx context.Context, userID uint) (*models.Student, error)
	ListFacilitators(ctx context.Context) ([]*models.Facilitator, error)
}

type CatalogRepository interface {
	CreateCohort(ctx context.Context, c *models.Cohort) error
	GetCohort(ctx context.Context, id uint) (*models.Cohort, error)
	ListCohorts(ctx context.Context) ([]*models.Cohort, error)
	UpdateCohort(ctx context.Context, c *models.Cohort) error
	DeleteCohort(ctx context.Context, id uint) error

	CreateClass(ctx context.Context, c *models.Class) error
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context) ([]*models.Class, error)
	UpdateClass(ctx context.Context, c *models.Class) error
	DeleteClass(ctx context.Context, id uint) error

	CreateModule(ctx context.Context, m *models.Module) error
	GetModule(ctx context.Context, id uint) (*models.Module, error)
	ListModules(ctx context.Context) ([]*models.Module, error)
	UpdateModule(ctx context.Context, m *models.Module) error
	DeleteModule(ctx context.Context, id uint) error

	CreateMode(ctx context.Context, m *models.Mode) error
	GetMode(ctx context.Context, id uint) (*models.Mode, error)
	ListModes(ctx context.Context) ([]*models.Mode, error)
	DeleteMode(ctx context.Context, id uint) error
}

type OfferingRepository interface {
	Create(ctx context.Context, offering *models.CourseOffering) error
	GetByID(ctx context.Context, id uint) (*models.CourseOffering, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.CourseOffering, error)
	List(ctx context.Context, filters OfferingFilters) ([]*models.CourseOffering, int64, error)
	Update(ctx context.Context, offering *models.CourseOffering) error
	Delete(ctx context.Context, id uint) error

	// ActiveExists reports whether an active offering with the given
	// uniqueness tuple already exists, excluding excludeID (0 for none).
	ActiveExists(ctx context.Context, key OfferingKey, excludeID uint) (bool, error)
	GetByFacilitator(ctx context.Context, facilitatorID uint, filters OfferingFilters) ([]*models.CourseOffering, int64, error)
	CountByFacilitator(ctx context.Context, facilitatorID uint) (int64, error)
}

type ActivityRepository interface {
	// Upsert inserts or merges on (allocation_id, week_number) and reports
	// whether a new row was created. On conflict only the columns named in
	// fields are assigned, plus submitted_at and updated_at, so a
	// submission never clobbers columns it did not carry.
	Upsert(ctx context.Context, activity *models.ActivityTracker, fields []string) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.ActivityTracker, error)
	GetByIDWithOffering(ctx context.Context, id uint) (*models.ActivityTracker, error)
	GetByAllocationWeek(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error)
	// GetByAllocationWeekForUpdate row-locks the tracker for the rest of
	// the surrounding transaction, serializing concurrent merges.
	GetByAllocationWeekForUpdate(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error)
	List(ctx context.Context, filters ActivityFilters) ([]*models.ActivityTracker, int64, error)
	Update(ctx context.Context, activity *models.ActivityTracker) error
	Delete(ctx context.Context, id uint) error
	CountByAllocation(ctx context.Context, allocationID uint) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint) error
}
