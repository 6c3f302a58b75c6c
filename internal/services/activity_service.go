package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/events"
	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

type activityService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewActivityService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ActivityService {
	return &activityService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

// Upsert records a weekly submission. One row exists per
// (allocation, week); resubmissions merge into it. After a successful
// write a notification intent is emitted best-effort: a broker failure
// is logged and swallowed, never failing the submission.
func (s *activityService) Upsert(ctx context.Context, actor *Actor, req *UpsertActivityRequest) (*ActivityResponse, error) {
	s.logger.Info("Upserting activity tracker",
		"user_id", actor.UserID,
		"allocation_id", req.AllocationID,
		"week_number", req.WeekNumber)

	offering, err := s.repo.Offering().GetByID(ctx, req.AllocationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &repositories.DanglingReferenceError{Field: "allocation_id"}
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}

	if !canModifyOffering(actor, offering) {
		return nil, NewPermissionError(actor.UserID, req.AllocationID, "activity", "submit", "outside actor scope")
	}

	if errs := s.validator.GetBusinessValidator().ValidateActivityUpsert(req, offering); len(errs) > 0 {
		return nil, errs
	}

	// Merge semantics: omitted fields keep the stored value on
	// resubmission and default on first submission. The read and the
	// write run in one transaction with the row locked, and the conflict
	// update only assigns the submitted columns, so a concurrent
	// submission for the same week cannot be reverted.
	var created bool
	var stored *models.ActivityTracker
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		existing, txErr := txRepo.Activity().GetByAllocationWeekForUpdate(ctx, req.AllocationID, req.WeekNumber)
		if txErr != nil && !repositories.IsNotFoundError(txErr) {
			return fmt.Errorf("failed to check existing tracker: %w", txErr)
		}

		now := time.Now()
		activity := &models.ActivityTracker{
			AllocationID: req.AllocationID,
			WeekNumber:   req.WeekNumber,
			Attendance:   req.Attendance,
			SubmittedAt:  &now,
			DueDate:      req.DueDate,
		}
		seedTaskStatuses(activity, existing)
		applyTaskStatuses(activity, req)
		if existing != nil {
			if req.Attendance == nil {
				activity.Attendance = existing.Attendance
			}
			if req.DueDate == nil {
				activity.DueDate = existing.DueDate
			}
			activity.Notes = existing.Notes
		}
		if activity.Attendance == nil {
			activity.Attendance = datatypes.JSON("[]")
		}
		if req.Notes != nil {
			activity.Notes = req.Notes
		}

		created, txErr = txRepo.Activity().Upsert(ctx, activity, submittedColumns(req))
		if txErr != nil {
			return txErr
		}

		stored, txErr = txRepo.Activity().GetByAllocationWeek(ctx, req.AllocationID, req.WeekNumber)
		if txErr != nil {
			return fmt.Errorf("failed to reload activity tracker: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Activity tracker saved",
		"activity_id", stored.ID,
		"allocation_id", stored.AllocationID,
		"week_number", stored.WeekNumber,
		"created", created)

	s.emitSubmissionIntent(ctx, stored, offering)

	return &ActivityResponse{ActivityTracker: stored, Created: created}, nil
}

// Update edits a tracker addressed by id. The merge runs through the
// same upsert path keyed on the stored (allocation, week), so omitted
// fields keep their values and ownership is re-checked there.
func (s *activityService) Update(ctx context.Context, actor *Actor, id uint, req *UpdateActivityRequest) (*ActivityResponse, error) {
	activity, err := s.repo.Activity().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}

	return s.Upsert(ctx, actor, &UpsertActivityRequest{
		AllocationID:        activity.AllocationID,
		WeekNumber:          activity.WeekNumber,
		Attendance:          req.Attendance,
		FormativeOneGrading: req.FormativeOneGrading,
		FormativeTwoGrading: req.FormativeTwoGrading,
		SummativeGrading:    req.SummativeGrading,
		CourseModeration:    req.CourseModeration,
		IntranetSync:        req.IntranetSync,
		GradeBookStatus:     req.GradeBookStatus,
		Notes:               req.Notes,
		DueDate:             req.DueDate,
	})
}

func (s *activityService) GetByID(ctx context.Context, actor *Actor, id uint) (*models.ActivityTracker, error) {
	activity, err := s.repo.Activity().GetByIDWithOffering(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}

	if activity.CourseOffering != nil && !canAccessOffering(actor, activity.CourseOffering) {
		return nil, NewPermissionError(actor.UserID, id, "activity", "read", "outside actor scope")
	}

	return activity, nil
}

func (s *activityService) List(ctx context.Context, actor *Actor, filters repositories.ActivityFilters) (*ActivityListResponse, error) {
	// Students track attendance through their cohort's offerings, so a
	// requested allocation outside that scope is denied up front.
	if filters.AllocationID != nil {
		offering, err := s.repo.Offering().GetByID(ctx, *filters.AllocationID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrOfferingNotFound
			}
			return nil, fmt.Errorf("failed to get offering: %w", err)
		}
		if !canAccessOffering(actor, offering) {
			return nil, NewPermissionError(actor.UserID, *filters.AllocationID, "activity", "list", "outside actor scope")
		}
	} else {
		filters = scopeActivityFilters(actor, filters)
		if actor.IsStudent() {
			return nil, NewPermissionError(actor.UserID, 0, "activity", "list", "students must list by offering")
		}
	}

	activities, total, err := s.repo.Activity().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity trackers: %w", err)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &ActivityListResponse{
		Activities: activities,
		Total:      total,
		Page:       page,
		Size:       size,
	}, nil
}

func (s *activityService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if !actor.IsManager() {
		return NewPermissionError(actor.UserID, id, "activity", "delete", "manager role required")
	}

	if err := s.repo.Activity().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrActivityNotFound
		}
		return err
	}

	s.logger.Info("Activity tracker deleted", "activity_id", id, "by", actor.UserID)
	return nil
}

// emitSubmissionIntent publishes exactly one event per successful write.
// Creates and merges carry the same intent type; the consumer does not
// distinguish a first submission from a resubmission.
func (s *activityService) emitSubmissionIntent(ctx context.Context, activity *models.ActivityTracker, offering *models.CourseOffering) {
	if s.eventPublisher == nil {
		return
	}

	event := events.NewEvent(events.EventActivitySubmitted, &events.ActivitySubmittedData{
		ActivityID:    activity.ID,
		AllocationID:  activity.AllocationID,
		FacilitatorID: offering.FacilitatorID,
		WeekNumber:    activity.WeekNumber,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish activity intent",
			"event_type", event.Type,
			"activity_id", activity.ID,
			"error", err)
	}
}

// submittedColumns lists the tracker columns the request actually
// carried; the conflict update is limited to these.
func submittedColumns(req *UpsertActivityRequest) []string {
	var cols []string
	if req.Attendance != nil {
		cols = append(cols, "attendance")
	}
	if req.FormativeOneGrading != nil {
		cols = append(cols, "formative_one_grading")
	}
	if req.FormativeTwoGrading != nil {
		cols = append(cols, "formative_two_grading")
	}
	if req.SummativeGrading != nil {
		cols = append(cols, "summative_grading")
	}
	if req.CourseModeration != nil {
		cols = append(cols, "course_moderation")
	}
	if req.IntranetSync != nil {
		cols = append(cols, "intranet_sync")
	}
	if req.GradeBookStatus != nil {
		cols = append(cols, "grade_book_status")
	}
	if req.Notes != nil {
		cols = append(cols, "notes")
	}
	if req.DueDate != nil {
		cols = append(cols, "due_date")
	}
	return cols
}

// seedTaskStatuses carries forward stored statuses, or the initial
// default for a first submission.
func seedTaskStatuses(activity *models.ActivityTracker, existing *models.ActivityTracker) {
	if existing != nil {
		activity.FormativeOneGrading = existing.FormativeOneGrading
		activity.FormativeTwoGrading = existing.FormativeTwoGrading
		activity.SummativeGrading = existing.SummativeGrading
		activity.CourseModeration = existing.CourseModeration
		activity.IntranetSync = existing.IntranetSync
		activity.GradeBookStatus = existing.GradeBookStatus
		return
	}

	activity.FormativeOneGrading = models.TaskNotStarted
	activity.FormativeTwoGrading = models.TaskNotStarted
	activity.SummativeGrading = models.TaskNotStarted
	activity.CourseModeration = models.TaskNotStarted
	activity.IntranetSync = models.TaskNotStarted
	activity.GradeBookStatus = models.TaskNotStarted
}

func applyTaskStatuses(activity *models.ActivityTracker, req *UpsertActivityRequest) {
	if req.FormativeOneGrading != nil {
		activity.FormativeOneGrading = *req.FormativeOneGrading
	}
	if req.FormativeTwoGrading != nil {
		activity.FormativeTwoGrading = *req.FormativeTwoGrading
	}
	if req.SummativeGrading != nil {
		activity.SummativeGrading = *req.SummativeGrading
	}
	if req.CourseModeration != nil {
		activity.CourseModeration = *req.CourseModeration
	}
	if req.IntranetSync != nil {
		activity.IntranetSync = *req.IntranetSync
	}
	if req.GradeBookStatus != nil {
		activity.GradeBookStatus = *req.GradeBookStatus
	}
}
