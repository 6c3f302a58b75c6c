package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CMP-2025/course-activity-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	registerCustomRules(validate)

	return bv
}

// Validate validates struct tags for any request
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateRegister validates registration requests, including the
// role-specific field requirements the struct tags cannot express.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	switch req.Role {
	case models.RoleStudent:
		if req.StudentID == nil || *req.StudentID == "" {
			errors = append(errors, ValidationError{
				Field:   "student_id",
				Message: "is required for student registration",
				Rule:    "business_logic",
			})
		}
		if req.CohortID == nil || *req.CohortID == 0 {
			errors = append(errors, ValidationError{
				Field:   "cohort_id",
				Message: "is required for student registration",
				Rule:    "business_logic",
			})
		}
	case models.RoleFacilitator:
		if req.StudentID != nil || req.CohortID != nil {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "student fields are not allowed for facilitator registration",
				Rule:    "business_logic",
			})
		}
	case models.RoleManager:
		if req.StudentID != nil || req.EmployeeID != nil {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "student and facilitator fields are not allowed for manager registration",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateCohortDates checks the chronological ordering of cohort dates
func (bv *BusinessValidator) ValidateCohortDates(start, end time.Time) ValidationErrors {
	var errors ValidationErrors

	if !end.After(start) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start_date",
			Value:   end,
			Rule:    "date_order",
		})
	}

	return errors
}

// ValidateOfferingCreate validates offering creation business rules
func (bv *BusinessValidator) ValidateOfferingCreate(req *OfferingCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateOfferingDates(req.StartDate, req.EndDate)...)

	return errors
}

// ValidateOfferingUpdate validates update rules against the stored row
func (bv *BusinessValidator) ValidateOfferingUpdate(req *OfferingUpdateRequest, existing *models.CourseOffering) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Effective dates after applying the patch must still be ordered.
	start := existing.StartDate
	end := existing.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	errors = append(errors, bv.validateOfferingDates(start, end)...)

	return errors
}

// ValidateActivityUpsert validates the weekly submission payload
func (bv *BusinessValidator) ValidateActivityUpsert(req *ActivityUpsertRequest, offering *models.CourseOffering) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if offering != nil && !offering.IsActive {
		errors = append(errors, ValidationError{
			Field:   "allocation_id",
			Message: "offering is not active",
			Value:   req.AllocationID,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateFullRecordCreate validates the composite creation payload
func (bv *BusinessValidator) ValidateFullRecordCreate(req *FullRecordCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.ValidateRegister(&req.User)...)

	if req.Offering != nil {
		if req.User.Role != models.RoleFacilitator {
			errors = append(errors, ValidationError{
				Field:   "offering",
				Message: "only facilitator records can seed a course offering",
				Value:   req.User.Role,
				Rule:    "business_logic",
			})
		}
		errors = append(errors, bv.validateOfferingDates(req.Offering.StartDate, req.Offering.EndDate)...)
	}

	if req.Activity != nil && req.Offering == nil {
		errors = append(errors, ValidationError{
			Field:   "activity",
			Message: "requires an offering in the same request",
			Rule:    "business_logic",
		})
	}

	return errors
}

func (bv *BusinessValidator) validateOfferingDates(start, end time.Time) ValidationErrors {
	var errors ValidationErrors

	if !end.After(start) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start_date",
			Value:   end,
			Rule:    "date_order",
		})
	}

	return errors
}

// registerCustomRules registers the custom tag validators used by the
// activity DTOs on the given validator instance.
func registerCustomRules(v *validator.Validate) {
	// Week number bounds mirror the longest module duration.
	v.RegisterValidation("week_number", func(fl validator.FieldLevel) bool {
		week := fl.Field().Int()
		return week >= 1 && week <= 52
	})

	v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		status := models.TaskStatus(fl.Field().String())
		switch status {
		case models.TaskDone, models.TaskPending, models.TaskNotStarted:
			return true
		}
		return false
	})
}
