package models

import "time"

// Catalog entities are the reference data a CourseOffering points at:
// the cohort taking it, the class it belongs to, the module being taught
// and the delivery mode.

type Cohort struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"`
	Description *string   `json:"description" gorm:"type:text"`
	StartDate   time.Time `json:"start_date" gorm:"not null" validate:"required"`
	EndDate     time.Time `json:"end_date" gorm:"not null" validate:"required"`
	MaxStudents int       `json:"max_students" gorm:"not null" validate:"required,min=1,max=100"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Students []Student `json:"students,omitempty" gorm:"foreignKey:CohortID"`
}

type Semester string

const (
	SemesterS   Semester = "S"
	SemesterJ   Semester = "J"
	SemesterOne Semester = "1"
	SemesterTwo Semester = "2"
)

type Class struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:10" validate:"required,min=4,max=10"`
	Year        int       `json:"year" gorm:"not null" validate:"required,min=2020,max=2030"`
	Semester    Semester  `json:"semester" gorm:"not null;size:2" validate:"required,oneof=S J 1 2"`
	Description *string   `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Module struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"uniqueIndex;not null;size:10" validate:"required,min=3,max=10"`
	Name          string    `json:"name" gorm:"not null;size:100" validate:"required,min=5,max=100"`
	Description   *string   `json:"description" gorm:"type:text"`
	Credits       int       `json:"credits" gorm:"not null" validate:"required,min=1,max=10"`
	DurationWeeks int       `json:"duration_weeks" gorm:"not null" validate:"required,min=1,max=52"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ModeName string

const (
	ModeOnline   ModeName = "online"
	ModeInPerson ModeName = "in-person"
	ModeHybrid   ModeName = "hybrid"
)

type Mode struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        ModeName  `json:"name" gorm:"uniqueIndex;not null;size:20" validate:"required,oneof=online in-person hybrid"`
	Description *string   `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Cohort) TableName() string { return "cohorts" }
func (Class) TableName() string  { return "classes" }
func (Module) TableName() string { return "modules" }
func (Mode) TableName() string   { return "modes" }
