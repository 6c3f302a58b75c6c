package services

import (
	"context"
	"time"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateUserRequest = validator.UserUpdateRequest

type CreateCohortRequest = validator.CohortCreateRequest
type UpdateCohortRequest = validator.CohortUpdateRequest
type CreateClassRequest = validator.ClassCreateRequest
type UpdateClassRequest = validator.ClassUpdateRequest
type CreateModuleRequest = validator.ModuleCreateRequest
type UpdateModuleRequest = validator.ModuleUpdateRequest
type CreateModeRequest = validator.ModeCreateRequest

type CreateOfferingRequest = validator.OfferingCreateRequest
type UpdateOfferingRequest = validator.OfferingUpdateRequest
type UpsertActivityRequest = validator.ActivityUpsertRequest
type UpdateActivityRequest = validator.ActivityUpdateRequest
type CreateFullRecordRequest = validator.FullRecordCreateRequest
type CreateNotificationRequest = validator.NotificationCreateRequest

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type OfferingResponse struct {
	*models.CourseOffering
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type OfferingListResponse struct {
	Offerings []*OfferingResponse `json:"offerings"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Size      int                 `json:"size"`
}

type ActivityResponse struct {
	*models.ActivityTracker
	Created bool `json:"created"`
}

type ActivityListResponse struct {
	Activities []*models.ActivityTracker `json:"activities"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	Size       int                       `json:"size"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
}

// FullRecordResponse reports everything created by the composite path.
type FullRecordResponse struct {
	User     *models.User            `json:"user"`
	Offering *models.CourseOffering  `json:"offering,omitempty"`
	Activity *models.ActivityTracker `json:"activity,omitempty"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*Actor, error)
	ResolveActor(ctx context.Context, userID uint) (*Actor, error)
}

type UserService interface {
	GetByID(ctx context.Context, actor *Actor, id uint) (*models.User, error)
	List(ctx context.Context, actor *Actor, filters repositories.UserFilters) (*UserListResponse, error)
	ListFacilitators(ctx context.Context, actor *Actor) ([]*models.Facilitator, error)
	Update(ctx context.Context, actor *Actor, id uint, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor *Actor, id uint) error
}

type CatalogService interface {
	CreateCohort(ctx context.Context, actor *Actor, req *CreateCohortRequest) (*models.Cohort, error)
	GetCohort(ctx context.Context, id uint) (*models.Cohort, error)
	ListCohorts(ctx context.Context) ([]*models.Cohort, error)
	UpdateCohort(ctx context.Context, actor *Actor, id uint, req *UpdateCohortRequest) (*models.Cohort, error)
	DeleteCohort(ctx context.Context, actor *Actor, id uint) error

	CreateClass(ctx context.Context, actor *Actor, req *CreateClassRequest) (*models.Class, error)
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context) ([]*models.Class, error)
	UpdateClass(ctx context.Context, actor *Actor, id uint, req *UpdateClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, actor *Actor, id uint) error

	CreateModule(ctx context.Context, actor *Actor, req *CreateModuleRequest) (*models.Module, error)
	GetModule(ctx context.Context, id uint) (*models.Module, error)
	ListModules(ctx context.Context) ([]*models.Module, error)
	UpdateModule(ctx context.Context, actor *Actor, id uint, req *UpdateModuleRequest) (*models.Module, error)
	DeleteModule(ctx context.Context, actor *Actor, id uint) error

	CreateMode(ctx context.Context, actor *Actor, req *CreateModeRequest) (*models.Mode, error)
	ListModes(ctx context.Context) ([]*models.Mode, error)
	DeleteMode(ctx context.Context, actor *Actor, id uint) error
}

type OfferingService interface {
	Create(ctx context.Context, actor *Actor, req *CreateOfferingRequest) (*OfferingResponse, error)
	GetByID(ctx context.Context, actor *Actor, id uint) (*OfferingResponse, error)
	List(ctx context.Context, actor *Actor, filters repositories.OfferingFilters) (*OfferingListResponse, error)
	Update(ctx context.Context, actor *Actor, id uint, req *UpdateOfferingRequest) (*OfferingResponse, error)
	Delete(ctx context.Context, actor *Actor, id uint) error
}

type ActivityService interface {
	Upsert(ctx context.Context, actor *Actor, req *UpsertActivityRequest) (*ActivityResponse, error)
	Update(ctx context.Context, actor *Actor, id uint, req *UpdateActivityRequest) (*ActivityResponse, error)
	GetByID(ctx context.Context, actor *Actor, id uint) (*models.ActivityTracker, error)
	List(ctx context.Context, actor *Actor, filters repositories.ActivityFilters) (*ActivityListResponse, error)
	Delete(ctx context.Context, actor *Actor, id uint) error
}

type NotificationService interface {
	Create(ctx context.Context, actor *Actor, req *CreateNotificationRequest) (*models.Notification, error)
	ListMine(ctx context.Context, actor *Actor, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, actor *Actor, id uint) error
}

type FullRecordService interface {
	Create(ctx context.Context, actor *Actor, req *CreateFullRecordRequest) (*FullRecordResponse, error)
}

// ExportService renders activity data as spreadsheets for managers.
type ExportService interface {
	ExportOfferingActivities(ctx context.Context, actor *Actor, offeringID uint) ([]byte, string, error)
}

// ServiceManager provides access to all initialized services
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Catalog() CatalogService
	Offering() OfferingService
	Activity() ActivityService
	Notification() NotificationService
	FullRecord() FullRecordService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
