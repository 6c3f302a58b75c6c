package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

// exportService renders an offering's weekly activity as an xlsx
// workbook for reporting.
type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var exportHeader = []string{
	"Week", "Formative 1 Grading", "Formative 2 Grading", "Summative Grading",
	"Course Moderation", "Intranet Sync", "Grade Book", "Notes",
	"Submitted At", "Due Date",
}

// ExportOfferingActivities returns the workbook bytes and a suggested
// filename. Facilitators may export their own offerings, managers any.
func (s *exportService) ExportOfferingActivities(ctx context.Context, actor *Actor, offeringID uint) ([]byte, string, error) {
	offering, err := s.repo.Offering().GetByIDWithDetails(ctx, offeringID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrOfferingNotFound
		}
		return nil, "", fmt.Errorf("failed to get offering: %w", err)
	}

	if actor.IsStudent() || !canAccessOffering(actor, offering) {
		return nil, "", NewPermissionError(actor.UserID, offeringID, "offering", "export", "outside actor scope")
	}

	allocationID := offering.ID
	activities, _, err := s.repo.Activity().List(ctx, repositories.ActivityFilters{
		AllocationID: &allocationID,
		Limit:        100,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list activity trackers: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Activity"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	title := fmt.Sprintf("%s / %s / cohort %s",
		offering.Module.Code, offering.Class.Name, offering.Cohort.Name)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, "", fmt.Errorf("failed to write title: %w", err)
	}

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, a := range activities {
		notes := ""
		if a.Notes != nil {
			notes = *a.Notes
		}
		values := []interface{}{
			a.WeekNumber,
			string(a.FormativeOneGrading),
			string(a.FormativeTwoGrading),
			string(a.SummativeGrading),
			string(a.CourseModeration),
			string(a.IntranetSync),
			string(a.GradeBookStatus),
			notes,
			formatExportTime(a.SubmittedAt),
			formatExportTime(a.DueDate),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("activity_%s_%d.xlsx", offering.Module.Code, offering.ID)
	s.logger.Info("Offering activities exported",
		"offering_id", offeringID,
		"rows", len(activities),
		"by", actor.UserID)

	return buf.Bytes(), filename, nil
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
