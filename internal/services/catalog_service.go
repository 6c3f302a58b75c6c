package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

// catalogService manages the reference entities offerings are assembled
// from. All writes are manager-only; reads are open to any actor.
type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *catalogService) requireManager(actor *Actor, resource, action string) error {
	if !actor.IsManager() {
		return NewPermissionError(actor.UserID, 0, resource, action, "manager role required")
	}
	return nil
}

// ----- Cohorts -----

func (s *catalogService) CreateCohort(ctx context.Context, actor *Actor, req *CreateCohortRequest) (*models.Cohort, error) {
	if err := s.requireManager(actor, "cohort", "create"); err != nil {
		return nil, err
	}
	bv := s.validator.GetBusinessValidator()
	if errs := append(bv.Validate(req), bv.ValidateCohortDates(req.StartDate, req.EndDate)...); len(errs) > 0 {
		return nil, errs
	}

	cohort := &models.Cohort{
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxStudents: req.MaxStudents,
		IsActive:    true,
	}
	if err := s.repo.Catalog().CreateCohort(ctx, cohort); err != nil {
		return nil, err
	}

	s.logger.Info("Cohort created", "cohort_id", cohort.ID, "name", cohort.Name)
	return cohort, nil
}

func (s *catalogService) GetCohort(ctx context.Context, id uint) (*models.Cohort, error) {
	cohort, err := s.repo.Catalog().GetCohort(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCohortNotFound
		}
		return nil, fmt.Errorf("failed to get cohort: %w", err)
	}
	return cohort, nil
}

func (s *catalogService) ListCohorts(ctx context.Context) ([]*models.Cohort, error) {
	return s.repo.Catalog().ListCohorts(ctx)
}

func (s *catalogService) UpdateCohort(ctx context.Context, actor *Actor, id uint, req *UpdateCohortRequest) (*models.Cohort, error) {
	if err := s.requireManager(actor, "cohort", "update"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	cohort, err := s.GetCohort(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cohort.Name = *req.Name
	}
	if req.StartDate != nil {
		cohort.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		cohort.EndDate = *req.EndDate
	}
	if req.MaxStudents != nil {
		cohort.MaxStudents = *req.MaxStudents
	}
	if req.IsActive != nil {
		cohort.IsActive = *req.IsActive
	}

	if errs := s.validator.GetBusinessValidator().ValidateCohortDates(cohort.StartDate, cohort.EndDate); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Catalog().UpdateCohort(ctx, cohort); err != nil {
		return nil, err
	}
	return cohort, nil
}

func (s *catalogService) DeleteCohort(ctx context.Context, actor *Actor, id uint) error {
	if err := s.requireManager(actor, "cohort", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteCohort(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCohortNotFound
		}
		return err
	}
	s.logger.Info("Cohort deleted", "cohort_id", id, "by", actor.UserID)
	return nil
}

// ----- Classes -----

func (s *catalogService) CreateClass(ctx context.Context, actor *Actor, req *CreateClassRequest) (*models.Class, error) {
	if err := s.requireManager(actor, "class", "create"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	class := &models.Class{
		Name:     req.Name,
		Year:     req.Year,
		Semester: req.Semester,
	}
	if err := s.repo.Catalog().CreateClass(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("Class created", "class_id", class.ID, "name", class.Name)
	return class, nil
}

func (s *catalogService) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	class, err := s.repo.Catalog().GetClass(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

func (s *catalogService) ListClasses(ctx context.Context) ([]*models.Class, error) {
	return s.repo.Catalog().ListClasses(ctx)
}

func (s *catalogService) UpdateClass(ctx context.Context, actor *Actor, id uint, req *UpdateClassRequest) (*models.Class, error) {
	if err := s.requireManager(actor, "class", "update"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	class, err := s.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Year != nil {
		class.Year = *req.Year
	}
	if req.Semester != nil {
		class.Semester = *req.Semester
	}

	if err := s.repo.Catalog().UpdateClass(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *catalogService) DeleteClass(ctx context.Context, actor *Actor, id uint) error {
	if err := s.requireManager(actor, "class", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteClass(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}

// ----- Modules -----

func (s *catalogService) CreateModule(ctx context.Context, actor *Actor, req *CreateModuleRequest) (*models.Module, error) {
	if err := s.requireManager(actor, "module", "create"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	module := &models.Module{
		Code:          req.Code,
		Name:          req.Name,
		Credits:       req.Credits,
		DurationWeeks: req.DurationWeeks,
		IsActive:      true,
	}
	if err := s.repo.Catalog().CreateModule(ctx, module); err != nil {
		return nil, err
	}

	s.logger.Info("Module created", "module_id", module.ID, "code", module.Code)
	return module, nil
}

func (s *catalogService) GetModule(ctx context.Context, id uint) (*models.Module, error) {
	module, err := s.repo.Catalog().GetModule(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return module, nil
}

func (s *catalogService) ListModules(ctx context.Context) ([]*models.Module, error) {
	return s.repo.Catalog().ListModules(ctx)
}

func (s *catalogService) UpdateModule(ctx context.Context, actor *Actor, id uint, req *UpdateModuleRequest) (*models.Module, error) {
	if err := s.requireManager(actor, "module", "update"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	module, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		module.Code = *req.Code
	}
	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.Credits != nil {
		module.Credits = *req.Credits
	}
	if req.DurationWeeks != nil {
		module.DurationWeeks = *req.DurationWeeks
	}
	if req.IsActive != nil {
		module.IsActive = *req.IsActive
	}

	if err := s.repo.Catalog().UpdateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *catalogService) DeleteModule(ctx context.Context, actor *Actor, id uint) error {
	if err := s.requireManager(actor, "module", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteModule(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrModuleNotFound
		}
		return err
	}
	return nil
}

// ----- Modes -----

func (s *catalogService) CreateMode(ctx context.Context, actor *Actor, req *CreateModeRequest) (*models.Mode, error) {
	if err := s.requireManager(actor, "mode", "create"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	mode := &models.Mode{Name: req.Name}
	if err := s.repo.Catalog().CreateMode(ctx, mode); err != nil {
		return nil, err
	}
	return mode, nil
}

func (s *catalogService) ListModes(ctx context.Context) ([]*models.Mode, error) {
	return s.repo.Catalog().ListModes(ctx)
}

func (s *catalogService) DeleteMode(ctx context.Context, actor *Actor, id uint) error {
	if err := s.requireManager(actor, "mode", "delete"); err != nil {
		return err
	}
	if err := s.repo.Catalog().DeleteMode(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrModeNotFound
		}
		return err
	}
	return nil
}
