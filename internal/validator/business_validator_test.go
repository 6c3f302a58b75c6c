package validator

import (
	"testing"
	"time"

	"github.com/CMP-2025/course-activity-service/internal/models"
)

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func validStudentRegister() *RegisterRequest {
	return &RegisterRequest{
		Email:     "student@example.com",
		Password:  "secret-pass-1",
		FirstName: "Sam",
		LastName:  "Mwangi",
		Role:      models.RoleStudent,
		StudentID: strPtr("S-2024-001"),
		CohortID:  uintPtr(1),
	}
}

func TestValidateRegister(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("ValidStudent", func(t *testing.T) {
		if errs := bv.ValidateRegister(validStudentRegister()); len(errs) > 0 {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("StudentMissingCohort", func(t *testing.T) {
		req := validStudentRegister()
		req.CohortID = nil
		errs := bv.ValidateRegister(req)
		if len(errs) == 0 {
			t.Fatal("expected error for missing cohort_id")
		}
		if errs[0].Field != "cohort_id" {
			t.Errorf("expected cohort_id error, got %q", errs[0].Field)
		}
	})

	t.Run("StudentMissingStudentID", func(t *testing.T) {
		req := validStudentRegister()
		req.StudentID = nil
		if errs := bv.ValidateRegister(req); len(errs) == 0 {
			t.Fatal("expected error for missing student_id")
		}
	})

	t.Run("FacilitatorWithStudentFields", func(t *testing.T) {
		req := &RegisterRequest{
			Email:     "fac@example.com",
			Password:  "secret-pass-1",
			FirstName: "Fay",
			LastName:  "Ndidi",
			Role:      models.RoleFacilitator,
			StudentID: strPtr("S-1"),
		}
		if errs := bv.ValidateRegister(req); len(errs) == 0 {
			t.Fatal("expected cross-role field rejection")
		}
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		req := validStudentRegister()
		req.Email = "not-an-email"
		if errs := bv.ValidateRegister(req); len(errs) == 0 {
			t.Fatal("expected email validation error")
		}
	})
}

func TestValidateOfferingDates(t *testing.T) {
	bv := NewBusinessValidator()
	now := time.Now()

	req := &OfferingCreateRequest{
		ModuleID:      1,
		ClassID:       1,
		CohortID:      1,
		FacilitatorID: 1,
		ModeID:        1,
		Trimester:     models.TrimesterOne,
		IntakePeriod:  models.IntakeHT1,
		StartDate:     now,
		EndDate:       now.AddDate(0, 3, 0),
	}
	if errs := bv.ValidateOfferingCreate(req); len(errs) > 0 {
		t.Fatalf("expected valid request, got %v", errs)
	}

	req.EndDate = now.AddDate(0, 0, -1)
	errs := bv.ValidateOfferingCreate(req)
	if len(errs) == 0 {
		t.Fatal("expected date ordering error")
	}
	if errs[0].Field != "end_date" {
		t.Errorf("expected end_date error, got %q", errs[0].Field)
	}
}

func TestValidateOfferingUpdate_EffectiveDates(t *testing.T) {
	bv := NewBusinessValidator()
	now := time.Now()
	existing := &models.CourseOffering{
		StartDate: now,
		EndDate:   now.AddDate(0, 3, 0),
	}

	// Patching only the end date before the stored start must fail.
	bad := now.AddDate(0, 0, -1)
	errs := bv.ValidateOfferingUpdate(&OfferingUpdateRequest{EndDate: &bad}, existing)
	if len(errs) == 0 {
		t.Fatal("expected effective date ordering error")
	}

	good := now.AddDate(0, 6, 0)
	if errs := bv.ValidateOfferingUpdate(&OfferingUpdateRequest{EndDate: &good}, existing); len(errs) > 0 {
		t.Fatalf("expected valid patch, got %v", errs)
	}
}

func TestValidateActivityUpsert(t *testing.T) {
	bv := NewBusinessValidator()
	active := &models.CourseOffering{ID: 1, IsActive: true}
	inactive := &models.CourseOffering{ID: 2, IsActive: false}

	t.Run("WeekBounds", func(t *testing.T) {
		req := &ActivityUpsertRequest{AllocationID: 1, WeekNumber: 53}
		if errs := bv.ValidateActivityUpsert(req, active); len(errs) == 0 {
			t.Fatal("expected week_number bound error")
		}
	})

	t.Run("InactiveOfferingRejected", func(t *testing.T) {
		req := &ActivityUpsertRequest{AllocationID: 2, WeekNumber: 1}
		errs := bv.ValidateActivityUpsert(req, inactive)
		if len(errs) == 0 {
			t.Fatal("expected inactive offering rejection")
		}
		if errs[0].Field != "allocation_id" {
			t.Errorf("expected allocation_id error, got %q", errs[0].Field)
		}
	})

	t.Run("ValidStatusValues", func(t *testing.T) {
		done := models.TaskDone
		req := &ActivityUpsertRequest{
			AllocationID:        1,
			WeekNumber:          1,
			FormativeOneGrading: &done,
		}
		if errs := bv.ValidateActivityUpsert(req, active); len(errs) > 0 {
			t.Fatalf("expected valid request, got %v", errs)
		}
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		bogus := models.TaskStatus("Almost")
		req := &ActivityUpsertRequest{
			AllocationID:        1,
			WeekNumber:          1,
			FormativeOneGrading: &bogus,
		}
		if errs := bv.ValidateActivityUpsert(req, active); len(errs) == 0 {
			t.Fatal("expected unknown status rejection")
		}
	})
}

func TestValidateFullRecordCreate(t *testing.T) {
	bv := NewBusinessValidator()
	now := time.Now()

	t.Run("OfferingRequiresFacilitatorRole", func(t *testing.T) {
		req := &FullRecordCreateRequest{
			User: RegisterRequest{
				Email:     "m@example.com",
				Password:  "secret-pass-1",
				FirstName: "Mia",
				LastName:  "Chen",
				Role:      models.RoleManager,
			},
			Offering: &OfferingSeedRequest{
				ModuleID:     1,
				ClassID:      1,
				CohortID:     1,
				ModeID:       1,
				Trimester:    models.TrimesterOne,
				IntakePeriod: models.IntakeFT,
				StartDate:    now,
				EndDate:      now.AddDate(0, 3, 0),
			},
		}
		if errs := bv.ValidateFullRecordCreate(req); len(errs) == 0 {
			t.Fatal("expected rejection of offering seed for non-facilitator")
		}
	})

	t.Run("ActivityRequiresOffering", func(t *testing.T) {
		req := &FullRecordCreateRequest{
			User: RegisterRequest{
				Email:     "f@example.com",
				Password:  "secret-pass-1",
				FirstName: "Femi",
				LastName:  "Ade",
				Role:      models.RoleFacilitator,
			},
			Activity: &ActivitySeedRequest{WeekNumber: 1},
		}
		errs := bv.ValidateFullRecordCreate(req)
		if len(errs) == 0 {
			t.Fatal("expected rejection of activity seed without offering")
		}
	})
}
