package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/events"
	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

type offeringService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewOfferingService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) OfferingService {
	return &offeringService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

// Create builds a course offering. Managers may assign any facilitator;
// facilitators may only create offerings for themselves.
func (s *offeringService) Create(ctx context.Context, actor *Actor, req *CreateOfferingRequest) (*OfferingResponse, error) {
	s.logger.Info("Creating offering", "user_id", actor.UserID, "module_id", req.ModuleID)

	if errs := s.validator.GetBusinessValidator().ValidateOfferingCreate(req); len(errs) > 0 {
		return nil, errs
	}

	switch actor.Role {
	case models.RoleManager:
	case models.RoleFacilitator:
		if req.FacilitatorID != actor.FacilitatorID {
			return nil, NewPermissionError(actor.UserID, req.FacilitatorID, "offering", "create", "facilitators can only create their own offerings")
		}
	default:
		return nil, NewPermissionError(actor.UserID, 0, "offering", "create", "students cannot create offerings")
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	// Reject duplicates of an active offering before hitting the index
	// so the caller gets a field-level error instead of a raw conflict.
	exists, err := s.repo.Offering().ActiveExists(ctx, repositories.OfferingKey{
		ModuleID:     req.ModuleID,
		ClassID:      req.ClassID,
		CohortID:     req.CohortID,
		Trimester:    req.Trimester,
		IntakePeriod: req.IntakePeriod,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check offering uniqueness: %w", err)
	}
	if exists {
		return nil, &repositories.ConstraintViolationError{
			Field:      "course_unique_index",
			Constraint: "an active offering already exists for this module, class, cohort, trimester and intake period",
		}
	}

	offering := &models.CourseOffering{
		ModuleID:      req.ModuleID,
		ClassID:       req.ClassID,
		CohortID:      req.CohortID,
		FacilitatorID: req.FacilitatorID,
		ModeID:        req.ModeID,
		Trimester:     req.Trimester,
		IntakePeriod:  req.IntakePeriod,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MaxEnrollment: req.MaxEnrollment,
		IsActive:      true,
	}
	if offering.MaxEnrollment == 0 {
		offering.MaxEnrollment = 30
	}

	if err := s.repo.Offering().Create(ctx, offering); err != nil {
		return nil, err
	}

	s.logger.Info("Offering created", "offering_id", offering.ID, "facilitator_id", offering.FacilitatorID)
	s.publishEvent(ctx, events.EventOfferingCreated, map[string]interface{}{
		"offering_id":    offering.ID,
		"facilitator_id": offering.FacilitatorID,
	})

	return s.buildResponse(ctx, actor, offering.ID)
}

func (s *offeringService) GetByID(ctx context.Context, actor *Actor, id uint) (*OfferingResponse, error) {
	offering, err := s.repo.Offering().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}

	// Existence is not hidden from out-of-scope actors; they get an
	// explicit denial rather than a not-found.
	if !canAccessOffering(actor, offering) {
		return nil, NewPermissionError(actor.UserID, id, "offering", "read", "outside actor scope")
	}

	return &OfferingResponse{
		CourseOffering: offering,
		CanEdit:        canModifyOffering(actor, offering),
		CanDelete:      actor.IsManager(),
	}, nil
}

func (s *offeringService) List(ctx context.Context, actor *Actor, filters repositories.OfferingFilters) (*OfferingListResponse, error) {
	filters = scopeOfferingFilters(actor, filters)

	offerings, total, err := s.repo.Offering().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}

	responses := make([]*OfferingResponse, len(offerings))
	for i, o := range offerings {
		responses[i] = &OfferingResponse{
			CourseOffering: o,
			CanEdit:        canModifyOffering(actor, o),
			CanDelete:      actor.IsManager(),
		}
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &OfferingListResponse{
		Offerings: responses,
		Total:     total,
		Page:      page,
		Size:      size,
	}, nil
}

func (s *offeringService) Update(ctx context.Context, actor *Actor, id uint, req *UpdateOfferingRequest) (*OfferingResponse, error) {
	offering, err := s.repo.Offering().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}

	if !canModifyOffering(actor, offering) {
		return nil, NewPermissionError(actor.UserID, id, "offering", "update", "outside actor scope")
	}

	// Reassigning the facilitator is a manager operation.
	if req.FacilitatorID != nil && !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, id, "offering", "update", "only managers can reassign facilitators")
	}

	if errs := s.validator.GetBusinessValidator().ValidateOfferingUpdate(req, offering); len(errs) > 0 {
		return nil, errs
	}

	if req.FacilitatorID != nil {
		if _, err := s.repo.User().GetFacilitatorByID(ctx, *req.FacilitatorID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, &repositories.DanglingReferenceError{Field: "facilitator_id"}
			}
			return nil, fmt.Errorf("failed to check facilitator: %w", err)
		}
		offering.FacilitatorID = *req.FacilitatorID
	}
	if req.ModeID != nil {
		offering.ModeID = *req.ModeID
	}
	if req.Trimester != nil {
		offering.Trimester = *req.Trimester
	}
	if req.IntakePeriod != nil {
		offering.IntakePeriod = *req.IntakePeriod
	}
	if req.StartDate != nil {
		offering.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		offering.EndDate = *req.EndDate
	}
	if req.MaxEnrollment != nil {
		offering.MaxEnrollment = *req.MaxEnrollment
	}
	if req.IsActive != nil {
		offering.IsActive = *req.IsActive
	}

	// Re-check tuple uniqueness when the keying columns moved.
	if req.Trimester != nil || req.IntakePeriod != nil {
		exists, err := s.repo.Offering().ActiveExists(ctx, repositories.OfferingKey{
			ModuleID:     offering.ModuleID,
			ClassID:      offering.ClassID,
			CohortID:     offering.CohortID,
			Trimester:    offering.Trimester,
			IntakePeriod: offering.IntakePeriod,
		}, offering.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check offering uniqueness: %w", err)
		}
		if exists {
			return nil, &repositories.ConstraintViolationError{
				Field:      "course_unique_index",
				Constraint: "an active offering already exists for this module, class, cohort, trimester and intake period",
			}
		}
	}

	if err := s.repo.Offering().Update(ctx, offering); err != nil {
		return nil, err
	}

	s.logger.Info("Offering updated", "offering_id", id, "by", actor.UserID)
	return s.buildResponse(ctx, actor, id)
}

func (s *offeringService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if !actor.IsManager() {
		return NewPermissionError(actor.UserID, id, "offering", "delete", "manager role required")
	}

	count, err := s.repo.Activity().CountByAllocation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count activity trackers: %w", err)
	}
	if count > 0 {
		return &repositories.ReferentialIntegrityError{Entity: "course offering", Dependents: "activity trackers"}
	}

	if err := s.repo.Offering().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrOfferingNotFound
		}
		return err
	}

	s.logger.Info("Offering deleted", "offering_id", id, "by", actor.UserID)
	return nil
}

// checkReferences verifies every foreign key on the create path so a
// missing or inactive target surfaces as a field-level error.
func (s *offeringService) checkReferences(ctx context.Context, req *CreateOfferingRequest) error {
	module, err := s.repo.Catalog().GetModule(ctx, req.ModuleID)
	if err != nil {
		return refError(err, "module_id")
	}
	if !module.IsActive {
		return &repositories.DanglingReferenceError{Field: "module_id"}
	}
	if _, err := s.repo.Catalog().GetClass(ctx, req.ClassID); err != nil {
		return refError(err, "class_id")
	}
	cohort, err := s.repo.Catalog().GetCohort(ctx, req.CohortID)
	if err != nil {
		return refError(err, "cohort_id")
	}
	if !cohort.IsActive {
		return &repositories.DanglingReferenceError{Field: "cohort_id"}
	}
	if _, err := s.repo.Catalog().GetMode(ctx, req.ModeID); err != nil {
		return refError(err, "mode_id")
	}
	facilitator, err := s.repo.User().GetFacilitatorByID(ctx, req.FacilitatorID)
	if err != nil {
		return refError(err, "facilitator_id")
	}
	if facilitator.User != nil && !facilitator.User.IsActive {
		return &repositories.DanglingReferenceError{Field: "facilitator_id"}
	}
	return nil
}

func refError(err error, field string) error {
	if repositories.IsNotFoundError(err) {
		return &repositories.DanglingReferenceError{Field: field}
	}
	return fmt.Errorf("failed to check %s: %w", field, err)
}

func (s *offeringService) buildResponse(ctx context.Context, actor *Actor, id uint) (*OfferingResponse, error) {
	offering, err := s.repo.Offering().GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload offering: %w", err)
	}
	return &OfferingResponse{
		CourseOffering: offering,
		CanEdit:        canModifyOffering(actor, offering),
		CanDelete:      actor.IsManager(),
	}, nil
}

func (s *offeringService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
