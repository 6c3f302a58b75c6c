package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

// fullRecordService creates a user with its role record, optionally an
// offering and its first activity tracker, in a single transaction. Any
// failure rolls the whole chain back.
type fullRecordService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	auth      *authService
}

func NewFullRecordService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, auth AuthService) FullRecordService {
	s := &fullRecordService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
	if as, ok := auth.(*authService); ok {
		s.auth = as
	}
	return s
}

// Create runs the composite creation. The actor is nil when the call
// comes through the bootstrap path; otherwise manager role is required.
// No notification intent is emitted here; seeded trackers are setup
// data, not submissions.
func (s *fullRecordService) Create(ctx context.Context, actor *Actor, req *CreateFullRecordRequest) (*FullRecordResponse, error) {
	if actor != nil && !actor.IsManager() {
		return nil, NewPermissionError(actor.UserID, 0, "full_record", "create", "manager role required")
	}

	if errs := s.validator.GetBusinessValidator().ValidateFullRecordCreate(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.User.Email,
		Password:  string(hash),
		FirstName: req.User.FirstName,
		LastName:  req.User.LastName,
		Role:      req.User.Role,
		IsActive:  true,
	}

	resp := &FullRecordResponse{}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, user); err != nil {
			if repositories.IsConstraintViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if s.auth != nil {
			if err := s.auth.createRoleRecord(ctx, txRepo, user, &req.User); err != nil {
				return err
			}
		}
		resp.User = user

		if req.Offering == nil {
			return nil
		}

		offering, err := s.createOffering(ctx, txRepo, user, req.Offering)
		if err != nil {
			return err
		}
		resp.Offering = offering

		if req.Activity == nil {
			return nil
		}

		activity, err := s.createActivity(ctx, txRepo, offering, req.Activity)
		if err != nil {
			return err
		}
		resp.Activity = activity

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Full record created",
		"user_id", user.ID,
		"role", user.Role,
		"with_offering", resp.Offering != nil,
		"with_activity", resp.Activity != nil)

	return resp, nil
}

func (s *fullRecordService) createOffering(ctx context.Context, txRepo repositories.Repository, user *models.User, seed *validator.OfferingSeedRequest) (*models.CourseOffering, error) {
	if user.Facilitator == nil {
		return nil, fmt.Errorf("facilitator record missing for offering seed")
	}

	module, err := txRepo.Catalog().GetModule(ctx, seed.ModuleID)
	if err != nil {
		return nil, refError(err, "module_id")
	}
	if !module.IsActive {
		return nil, &repositories.DanglingReferenceError{Field: "module_id"}
	}
	if _, err := txRepo.Catalog().GetClass(ctx, seed.ClassID); err != nil {
		return nil, refError(err, "class_id")
	}
	cohort, err := txRepo.Catalog().GetCohort(ctx, seed.CohortID)
	if err != nil {
		return nil, refError(err, "cohort_id")
	}
	if !cohort.IsActive {
		return nil, &repositories.DanglingReferenceError{Field: "cohort_id"}
	}
	if _, err := txRepo.Catalog().GetMode(ctx, seed.ModeID); err != nil {
		return nil, refError(err, "mode_id")
	}

	exists, err := txRepo.Offering().ActiveExists(ctx, repositories.OfferingKey{
		ModuleID:     seed.ModuleID,
		ClassID:      seed.ClassID,
		CohortID:     seed.CohortID,
		Trimester:    seed.Trimester,
		IntakePeriod: seed.IntakePeriod,
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
		ModuleID:      seed.ModuleID,
		ClassID:       seed.ClassID,
		CohortID:      seed.CohortID,
		FacilitatorID: user.Facilitator.ID,
		ModeID:        seed.ModeID,
		Trimester:     seed.Trimester,
		IntakePeriod:  seed.IntakePeriod,
		StartDate:     seed.StartDate,
		EndDate:       seed.EndDate,
		MaxEnrollment: seed.MaxEnrollment,
		IsActive:      true,
	}
	if offering.MaxEnrollment == 0 {
		offering.MaxEnrollment = 30
	}

	if err := txRepo.Offering().Create(ctx, offering); err != nil {
		return nil, err
	}
	return offering, nil
}

func (s *fullRecordService) createActivity(ctx context.Context, txRepo repositories.Repository, offering *models.CourseOffering, seed *validator.ActivitySeedRequest) (*models.ActivityTracker, error) {
	now := time.Now()
	activity := &models.ActivityTracker{
		AllocationID:        offering.ID,
		WeekNumber:          seed.WeekNumber,
		Attendance:          seed.Attendance,
		FormativeOneGrading: models.TaskNotStarted,
		FormativeTwoGrading: models.TaskNotStarted,
		SummativeGrading:    models.TaskNotStarted,
		CourseModeration:    models.TaskNotStarted,
		IntranetSync:        models.TaskNotStarted,
		GradeBookStatus:     models.TaskNotStarted,
		SubmittedAt:         &now,
		DueDate:             seed.DueDate,
	}
	activity.Notes = seed.Notes
	if activity.Attendance == nil {
		activity.Attendance = datatypes.JSON("[]")
	}

	// The offering was created in this transaction, so the tracker is
	// always a fresh insert; the column list only matters on conflict.
	if _, err := txRepo.Activity().Upsert(ctx, activity, []string{"attendance", "notes", "due_date"}); err != nil {
		return nil, err
	}
	return activity, nil
}
