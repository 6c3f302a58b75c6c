package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CMP-2025/course-activity-service/internal/events"
	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

func newOfferingFixture(t *testing.T) (*offeringService, *mockRepository, *models.CourseOffering, *models.Facilitator) {
	t.Helper()
	repo := newMockRepository()
	offering, facilitator := seedOffering(t, repo)

	svc := &offeringService{
		repo:           repo,
		logger:         testLogger(),
		validator:      validator.New(),
		eventPublisher: events.NewMockEventPublisher(testLogger()),
	}
	return svc, repo, offering, facilitator
}

func TestOfferingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateActiveTupleRejected", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}

		_, err := svc.Create(ctx, manager, &CreateOfferingRequest{
			ModuleID:      offering.ModuleID,
			ClassID:       offering.ClassID,
			CohortID:      offering.CohortID,
			FacilitatorID: facilitator.ID,
			ModeID:        offering.ModeID,
			Trimester:     offering.Trimester,
			IntakePeriod:  offering.IntakePeriod,
			StartDate:     time.Now(),
			EndDate:       time.Now().AddDate(0, 3, 0),
		})
		var conflict *repositories.ConstraintViolationError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected constraint violation, got %v", err)
		}
		if conflict.Field != "course_unique_index" {
			t.Errorf("expected course_unique_index, got %q", conflict.Field)
		}
	})

	t.Run("SameTupleDifferentTrimesterAllowed", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}

		resp, err := svc.Create(ctx, manager, &CreateOfferingRequest{
			ModuleID:      offering.ModuleID,
			ClassID:       offering.ClassID,
			CohortID:      offering.CohortID,
			FacilitatorID: facilitator.ID,
			ModeID:        offering.ModeID,
			Trimester:     models.TrimesterTwo,
			IntakePeriod:  offering.IntakePeriod,
			StartDate:     time.Now(),
			EndDate:       time.Now().AddDate(0, 3, 0),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if resp.CourseOffering.MaxEnrollment != 30 {
			t.Errorf("expected max enrollment default 30, got %d", resp.CourseOffering.MaxEnrollment)
		}
	})

	t.Run("FacilitatorCannotCreateForOthers", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		actor := &Actor{UserID: 2, Role: models.RoleFacilitator, FacilitatorID: facilitator.ID + 1}

		_, err := svc.Create(ctx, actor, &CreateOfferingRequest{
			ModuleID:      offering.ModuleID,
			ClassID:       offering.ClassID,
			CohortID:      offering.CohortID,
			FacilitatorID: facilitator.ID,
			ModeID:        offering.ModeID,
			Trimester:     models.TrimesterThree,
			IntakePeriod:  offering.IntakePeriod,
			StartDate:     time.Now(),
			EndDate:       time.Now().AddDate(0, 3, 0),
		})
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected access denied, got %v", err)
		}
	})

	t.Run("UnknownModuleIsDanglingReference", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}

		_, err := svc.Create(ctx, manager, &CreateOfferingRequest{
			ModuleID:      9999,
			ClassID:       offering.ClassID,
			CohortID:      offering.CohortID,
			FacilitatorID: facilitator.ID,
			ModeID:        offering.ModeID,
			Trimester:     models.TrimesterTwo,
			IntakePeriod:  offering.IntakePeriod,
			StartDate:     time.Now(),
			EndDate:       time.Now().AddDate(0, 3, 0),
		})
		var dangling *repositories.DanglingReferenceError
		if !errors.As(err, &dangling) {
			t.Fatalf("expected dangling reference, got %v", err)
		}
	})

	// Reference targets must be active, not merely present.
	t.Run("InactiveReferencesRejected", func(t *testing.T) {
		cases := []struct {
			name       string
			deactivate func(ctx context.Context, t *testing.T, repo *mockRepository, offering *models.CourseOffering, facilitator *models.Facilitator)
			field      string
		}{
			{
				name: "Module",
				deactivate: func(ctx context.Context, t *testing.T, repo *mockRepository, offering *models.CourseOffering, _ *models.Facilitator) {
					module, err := repo.Catalog().GetModule(ctx, offering.ModuleID)
					if err != nil {
						t.Fatalf("get module: %v", err)
					}
					module.IsActive = false
					if err := repo.Catalog().UpdateModule(ctx, module); err != nil {
						t.Fatalf("deactivate module: %v", err)
					}
				},
				field: "module_id",
			},
			{
				name: "Cohort",
				deactivate: func(ctx context.Context, t *testing.T, repo *mockRepository, offering *models.CourseOffering, _ *models.Facilitator) {
					cohort, err := repo.Catalog().GetCohort(ctx, offering.CohortID)
					if err != nil {
						t.Fatalf("get cohort: %v", err)
					}
					cohort.IsActive = false
					if err := repo.Catalog().UpdateCohort(ctx, cohort); err != nil {
						t.Fatalf("deactivate cohort: %v", err)
					}
				},
				field: "cohort_id",
			},
			{
				name: "Facilitator",
				deactivate: func(ctx context.Context, t *testing.T, repo *mockRepository, _ *models.CourseOffering, facilitator *models.Facilitator) {
					user, err := repo.User().GetByID(ctx, facilitator.UserID)
					if err != nil {
						t.Fatalf("get facilitator user: %v", err)
					}
					user.IsActive = false
					if err := repo.User().Update(ctx, user); err != nil {
						t.Fatalf("deactivate facilitator user: %v", err)
					}
				},
				field: "facilitator_id",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc, repo, offering, facilitator := newOfferingFixture(t)
				manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}
				tc.deactivate(ctx, t, repo, offering, facilitator)

				_, err := svc.Create(ctx, manager, &CreateOfferingRequest{
					ModuleID:      offering.ModuleID,
					ClassID:       offering.ClassID,
					CohortID:      offering.CohortID,
					FacilitatorID: facilitator.ID,
					ModeID:        offering.ModeID,
					Trimester:     models.TrimesterTwo,
					IntakePeriod:  offering.IntakePeriod,
					StartDate:     time.Now(),
					EndDate:       time.Now().AddDate(0, 3, 0),
				})
				var dangling *repositories.DanglingReferenceError
				if !errors.As(err, &dangling) {
					t.Fatalf("expected dangling reference, got %v", err)
				}
				if dangling.Field != tc.field {
					t.Errorf("expected %q, got %q", tc.field, dangling.Field)
				}
			})
		}
	})
}

func TestOfferingService_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("DirectFetchOfForeignOfferingIsDenied", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		foreign := &Actor{UserID: 2, Role: models.RoleFacilitator, FacilitatorID: facilitator.ID + 1}

		// Direct fetch gets an explicit denial, never a 404.
		_, err := svc.GetByID(ctx, foreign, offering.ID)
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected access denied, got %v", err)
		}
	})

	t.Run("ListSilentlyNarrowsForeignRows", func(t *testing.T) {
		svc, _, _, facilitator := newOfferingFixture(t)
		foreign := &Actor{UserID: 2, Role: models.RoleFacilitator, FacilitatorID: facilitator.ID + 1}

		resp, err := svc.List(ctx, foreign, repositories.OfferingFilters{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if resp.Total != 0 {
			t.Errorf("expected foreign offerings to disappear from listings, got %d", resp.Total)
		}
	})

	t.Run("StudentSeesCohortOfferings", func(t *testing.T) {
		svc, _, offering, _ := newOfferingFixture(t)
		student := &Actor{UserID: 3, Role: models.RoleStudent, StudentID: 1, CohortID: offering.CohortID}

		resp, err := svc.GetByID(ctx, student, offering.ID)
		if err != nil {
			t.Fatalf("student fetch failed: %v", err)
		}
		if resp.CanEdit || resp.CanDelete {
			t.Error("students must never get edit or delete capability")
		}
	})
}

func TestOfferingService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("BlockedWhileTrackersExist", func(t *testing.T) {
		svc, repo, offering, _ := newOfferingFixture(t)
		manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}

		if _, err := repo.Activity().Upsert(ctx, &models.ActivityTracker{
			AllocationID: offering.ID,
			WeekNumber:   1,
		}, nil); err != nil {
			t.Fatalf("seed tracker: %v", err)
		}

		err := svc.Delete(ctx, manager, offering.ID)
		var integrity *repositories.ReferentialIntegrityError
		if !errors.As(err, &integrity) {
			t.Fatalf("expected referential integrity error, got %v", err)
		}
	})

	t.Run("ManagerOnly", func(t *testing.T) {
		svc, _, offering, facilitator := newOfferingFixture(t)
		owner := &Actor{UserID: 1, Role: models.RoleFacilitator, FacilitatorID: facilitator.ID}

		if err := svc.Delete(ctx, owner, offering.ID); !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected facilitator delete to be denied, got %v", err)
		}

		manager := &Actor{UserID: 2, Role: models.RoleManager, ManagerID: 1}
		if err := svc.Delete(ctx, manager, offering.ID); err != nil {
			t.Fatalf("manager delete failed: %v", err)
		}
	})
}
