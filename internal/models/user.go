package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleManager     UserRole = "manager"
	RoleFacilitator UserRole = "facilitator"
	RoleStudent     UserRole = "student"
)

// User is the root identity. Every user owns exactly one role record
// (Manager, Facilitator or Student) matching Role; the role record is
// destroyed together with the user.
type User struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password  string   `json:"-" gorm:"not null;size:255"`
	FirstName string   `json:"first_name" gorm:"not null;size:50" validate:"required,min=2,max=50"`
	LastName  string   `json:"last_name" gorm:"not null;size:50" validate:"required,min=2,max=50"`
	Role      UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,oneof=manager facilitator student"`
	IsActive  bool     `json:"is_active" gorm:"not null;default:true"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Manager     *Manager     `json:"manager,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Facilitator *Facilitator `json:"facilitator,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Student     *Student     `json:"student,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Manager struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	Department  *string        `json:"department" gorm:"size:100"`
	Permissions datatypes.JSON `json:"permissions" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Facilitator struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	EmployeeID     *string        `json:"employee_id" gorm:"uniqueIndex;size:50"`
	Specialization *string        `json:"specialization" gorm:"size:100"`
	Qualifications datatypes.JSON `json:"qualifications" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	User      *User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Offerings []CourseOffering `json:"offerings,omitempty" gorm:"foreignKey:FacilitatorID"`
}

type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
	StudentDropped   StudentStatus = "dropped"
)

type Student struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	UserID         uint          `json:"user_id" gorm:"uniqueIndex;not null"`
	StudentID      string        `json:"student_id" gorm:"uniqueIndex;not null;size:50" validate:"required"`
	CohortID       uint          `json:"cohort_id" gorm:"not null;index" validate:"required"`
	EnrollmentDate time.Time     `json:"enrollment_date" gorm:"autoCreateTime"`
	Status         StudentStatus `json:"status" gorm:"size:20;default:active" validate:"omitempty,oneof=active inactive graduated dropped"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Cohort *Cohort `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
}

func (User) TableName() string        { return "users" }
func (Manager) TableName() string     { return "managers" }
func (Facilitator) TableName() string { return "facilitators" }
func (Student) TableName() string     { return "students" }
