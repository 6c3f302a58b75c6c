package models

import "time"

type Trimester string

const (
	TrimesterOne   Trimester = "1"
	TrimesterTwo   Trimester = "2"
	TrimesterThree Trimester = "3"
)

type IntakePeriod string

const (
	IntakeHT1 IntakePeriod = "HT1"
	IntakeHT2 IntakePeriod = "HT2"
	IntakeFT  IntakePeriod = "FT"
)

// CourseOffering is a scheduled delivery of a Module to a Class/Cohort by a
// Facilitator in a given term and mode. The composite index guarantees the
// same module is never offered twice to the same class/cohort/term.
type CourseOffering struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	ModuleID      uint         `json:"module_id" gorm:"not null;uniqueIndex:course_unique_index" validate:"required"`
	ClassID       uint         `json:"class_id" gorm:"not null;uniqueIndex:course_unique_index" validate:"required"`
	CohortID      uint         `json:"cohort_id" gorm:"not null;uniqueIndex:course_unique_index" validate:"required"`
	FacilitatorID uint         `json:"facilitator_id" gorm:"not null;index" validate:"required"`
	ModeID        uint         `json:"mode_id" gorm:"not null" validate:"required"`
	Trimester     Trimester    `json:"trimester" gorm:"not null;size:1;uniqueIndex:course_unique_index" validate:"required,oneof=1 2 3"`
	IntakePeriod  IntakePeriod `json:"intake_period" gorm:"not null;size:3;uniqueIndex:course_unique_index" validate:"required,oneof=HT1 HT2 FT"`
	StartDate     time.Time    `json:"start_date" gorm:"not null" validate:"required"`
	EndDate       time.Time    `json:"end_date" gorm:"not null" validate:"required"`
	MaxEnrollment int          `json:"max_enrollment" gorm:"not null;default:30" validate:"omitempty,min=1,max=100"`
	IsActive      bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Relations
	Module      *Module           `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Class       *Class            `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Cohort      *Cohort           `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
	Facilitator *Facilitator      `json:"facilitator,omitempty" gorm:"foreignKey:FacilitatorID"`
	Mode        *Mode             `json:"mode,omitempty" gorm:"foreignKey:ModeID"`
	Activities  []ActivityTracker `json:"activities,omitempty" gorm:"foreignKey:AllocationID"`
}

func (CourseOffering) TableName() string { return "course_offerings" }
