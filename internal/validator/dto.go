package validator

import (
	"time"

	"gorm.io/datatypes"

	"github.com/CMP-2025/course-activity-service/internal/models"
)

// ===== AUTH =====

// RegisterRequest carries the payload for user registration. The role
// determines which of the role-specific blocks is required.
type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	FirstName string          `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string          `json:"last_name" validate:"required,min=1,max=50"`
	Role      models.UserRole `json:"role" validate:"required,oneof=manager facilitator student"`

	// Manager fields
	Department *string `json:"department" validate:"omitempty,max=100"`

	// Facilitator fields
	EmployeeID     *string `json:"employee_id" validate:"omitempty,max=20"`
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`

	// Student fields
	StudentID *string `json:"student_id" validate:"omitempty,max=20"`
	CohortID  *uint   `json:"cohort_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	IsActive  *bool   `json:"is_active"`
}

// ===== CATALOG =====

type CohortCreateRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=50"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	MaxStudents int       `json:"max_students" validate:"required,min=1,max=100"`
}

type CohortUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=3,max=50"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxStudents *int       `json:"max_students" validate:"omitempty,min=1,max=100"`
	IsActive    *bool      `json:"is_active"`
}

type ClassCreateRequest struct {
	Name     string          `json:"name" validate:"required,min=4,max=10"`
	Year     int             `json:"year" validate:"required,min=2020,max=2030"`
	Semester models.Semester `json:"semester" validate:"required,oneof=S J 1 2"`
}

type ClassUpdateRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=4,max=10"`
	Year     *int             `json:"year" validate:"omitempty,min=2020,max=2030"`
	Semester *models.Semester `json:"semester" validate:"omitempty,oneof=S J 1 2"`
}

type ModuleCreateRequest struct {
	Code          string `json:"code" validate:"required,min=3,max=10"`
	Name          string `json:"name" validate:"required,min=5,max=100"`
	Credits       int    `json:"credits" validate:"required,min=1,max=10"`
	DurationWeeks int    `json:"duration_weeks" validate:"required,min=1,max=52"`
}

type ModuleUpdateRequest struct {
	Code          *string `json:"code" validate:"omitempty,min=3,max=10"`
	Name          *string `json:"name" validate:"omitempty,min=5,max=100"`
	Credits       *int    `json:"credits" validate:"omitempty,min=1,max=10"`
	DurationWeeks *int    `json:"duration_weeks" validate:"omitempty,min=1,max=52"`
	IsActive      *bool   `json:"is_active"`
}

type ModeCreateRequest struct {
	Name models.ModeName `json:"name" validate:"required,oneof=online in-person hybrid"`
}

// ===== OFFERINGS =====

type OfferingCreateRequest struct {
	ModuleID      uint                `json:"module_id" validate:"required"`
	ClassID       uint                `json:"class_id" validate:"required"`
	CohortID      uint                `json:"cohort_id" validate:"required"`
	FacilitatorID uint                `json:"facilitator_id" validate:"required"`
	ModeID        uint                `json:"mode_id" validate:"required"`
	Trimester     models.Trimester    `json:"trimester" validate:"required,oneof=1 2 3"`
	IntakePeriod  models.IntakePeriod `json:"intake_period" validate:"required,oneof=HT1 HT2 FT"`
	StartDate     time.Time           `json:"start_date" validate:"required"`
	EndDate       time.Time           `json:"end_date" validate:"required"`
	MaxEnrollment int                 `json:"max_enrollment" validate:"omitempty,min=1,max=100"`
}

type OfferingUpdateRequest struct {
	FacilitatorID *uint                `json:"facilitator_id"`
	ModeID        *uint                `json:"mode_id"`
	Trimester     *models.Trimester    `json:"trimester" validate:"omitempty,oneof=1 2 3"`
	IntakePeriod  *models.IntakePeriod `json:"intake_period" validate:"omitempty,oneof=HT1 HT2 FT"`
	StartDate     *time.Time           `json:"start_date"`
	EndDate       *time.Time           `json:"end_date"`
	MaxEnrollment *int                 `json:"max_enrollment" validate:"omitempty,min=1,max=100"`
	IsActive      *bool                `json:"is_active"`
}

// ===== ACTIVITY TRACKERS =====

// ActivityUpsertRequest is the weekly submission payload. Omitted task
// statuses keep their stored value on merge.
type ActivityUpsertRequest struct {
	AllocationID uint           `json:"allocation_id" validate:"required"`
	WeekNumber   int            `json:"week_number" validate:"required,week_number"`
	Attendance   datatypes.JSON `json:"attendance"`

	FormativeOneGrading *models.TaskStatus `json:"formative_one_grading" validate:"omitempty,task_status"`
	FormativeTwoGrading *models.TaskStatus `json:"formative_two_grading" validate:"omitempty,task_status"`
	SummativeGrading    *models.TaskStatus `json:"summative_grading" validate:"omitempty,task_status"`
	CourseModeration    *models.TaskStatus `json:"course_moderation" validate:"omitempty,task_status"`
	IntranetSync        *models.TaskStatus `json:"intranet_sync" validate:"omitempty,task_status"`
	GradeBookStatus     *models.TaskStatus `json:"grade_book_status" validate:"omitempty,task_status"`

	Notes   *string    `json:"notes" validate:"omitempty,max=2000"`
	DueDate *time.Time `json:"due_date"`
}

// ActivityUpdateRequest edits a tracker addressed by id. The allocation
// and week come from the stored row; everything here is optional and
// merges like a resubmission.
type ActivityUpdateRequest struct {
	Attendance datatypes.JSON `json:"attendance"`

	FormativeOneGrading *models.TaskStatus `json:"formative_one_grading" validate:"omitempty,task_status"`
	FormativeTwoGrading *models.TaskStatus `json:"formative_two_grading" validate:"omitempty,task_status"`
	SummativeGrading    *models.TaskStatus `json:"summative_grading" validate:"omitempty,task_status"`
	CourseModeration    *models.TaskStatus `json:"course_moderation" validate:"omitempty,task_status"`
	IntranetSync        *models.TaskStatus `json:"intranet_sync" validate:"omitempty,task_status"`
	GradeBookStatus     *models.TaskStatus `json:"grade_book_status" validate:"omitempty,task_status"`

	Notes   *string    `json:"notes" validate:"omitempty,max=2000"`
	DueDate *time.Time `json:"due_date"`
}

// ===== COMPOSITE CREATION =====

// FullRecordCreateRequest creates a user, its role record and optionally
// an offering plus first activity tracker in one transaction.
type FullRecordCreateRequest struct {
	User     RegisterRequest      `json:"user" validate:"required"`
	Offering *OfferingSeedRequest `json:"offering"`
	Activity *ActivitySeedRequest `json:"activity"`
}

// OfferingSeedRequest is OfferingCreateRequest minus the facilitator,
// which is the user being created.
type OfferingSeedRequest struct {
	ModuleID      uint                `json:"module_id" validate:"required"`
	ClassID       uint                `json:"class_id" validate:"required"`
	CohortID      uint                `json:"cohort_id" validate:"required"`
	ModeID        uint                `json:"mode_id" validate:"required"`
	Trimester     models.Trimester    `json:"trimester" validate:"required,oneof=1 2 3"`
	IntakePeriod  models.IntakePeriod `json:"intake_period" validate:"required,oneof=HT1 HT2 FT"`
	StartDate     time.Time           `json:"start_date" validate:"required"`
	EndDate       time.Time           `json:"end_date" validate:"required"`
	MaxEnrollment int                 `json:"max_enrollment" validate:"omitempty,min=1,max=100"`
}

// ActivitySeedRequest is the first tracker for a seeded offering.
type ActivitySeedRequest struct {
	WeekNumber int            `json:"week_number" validate:"required,week_number"`
	Attendance datatypes.JSON `json:"attendance"`
	Notes      *string        `json:"notes" validate:"omitempty,max=2000"`
	DueDate    *time.Time     `json:"due_date"`
}

// ===== NOTIFICATIONS =====

type NotificationCreateRequest struct {
	UserID  uint                    `json:"user_id" validate:"required"`
	Type    models.NotificationType `json:"type" validate:"required,oneof=reminder alert info warning"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"required,max=1000"`
}
