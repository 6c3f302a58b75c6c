package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaskStatus tracks progress on one weekly grading/compliance task.
type TaskStatus string

const (
	TaskDone       TaskStatus = "Done"
	TaskPending    TaskStatus = "Pending"
	TaskNotStarted TaskStatus = "Not Started"
)

// ActivityTracker is one facilitator submission per course offering per week.
// AllocationID references the course offering; the (allocation_id, week_number)
// unique index makes weekly submissions upserts rather than duplicates.
type ActivityTracker struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AllocationID uint `json:"allocation_id" gorm:"not null;uniqueIndex:idx_allocation_week" validate:"required"`
	WeekNumber   int  `json:"week_number" gorm:"not null;uniqueIndex:idx_allocation_week" validate:"required,min=1,max=52"`

	// One boolean per session held that week. Empty, not NULL, before
	// the first attendance is recorded.
	Attendance datatypes.JSON `json:"attendance" gorm:"type:jsonb;default:'[]'"`

	FormativeOneGrading TaskStatus `json:"formative_one_grading" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`
	FormativeTwoGrading TaskStatus `json:"formative_two_grading" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`
	SummativeGrading    TaskStatus `json:"summative_grading" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`
	CourseModeration    TaskStatus `json:"course_moderation" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`
	IntranetSync        TaskStatus `json:"intranet_sync" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`
	GradeBookStatus     TaskStatus `json:"grade_book_status" gorm:"size:20;default:Not Started" validate:"omitempty,oneof=Done Pending 'Not Started'"`

	Notes       *string    `json:"notes" gorm:"type:text"`
	SubmittedAt *time.Time `json:"submitted_at"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CourseOffering *CourseOffering `json:"course_offering,omitempty" gorm:"foreignKey:AllocationID"`
}

func (ActivityTracker) TableName() string { return "activity_trackers" }
