package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

func TestCanAccessOffering(t *testing.T) {
	offering := &models.CourseOffering{ID: 1, FacilitatorID: 10, CohortID: 20}

	cases := []struct {
		name  string
		actor *Actor
		want  bool
	}{
		{"ManagerSeesAll", &Actor{Role: models.RoleManager}, true},
		{"OwningFacilitator", &Actor{Role: models.RoleFacilitator, FacilitatorID: 10}, true},
		{"ForeignFacilitator", &Actor{Role: models.RoleFacilitator, FacilitatorID: 11}, false},
		{"StudentInCohort", &Actor{Role: models.RoleStudent, CohortID: 20}, true},
		{"StudentOutsideCohort", &Actor{Role: models.RoleStudent, CohortID: 21}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canAccessOffering(tc.actor, offering); got != tc.want {
				t.Errorf("canAccessOffering = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanModifyOffering(t *testing.T) {
	offering := &models.CourseOffering{ID: 1, FacilitatorID: 10, CohortID: 20}

	if !canModifyOffering(&Actor{Role: models.RoleManager}, offering) {
		t.Error("manager should modify any offering")
	}
	if !canModifyOffering(&Actor{Role: models.RoleFacilitator, FacilitatorID: 10}, offering) {
		t.Error("owning facilitator should modify own offering")
	}
	if canModifyOffering(&Actor{Role: models.RoleFacilitator, FacilitatorID: 11}, offering) {
		t.Error("foreign facilitator must not modify")
	}
	if canModifyOffering(&Actor{Role: models.RoleStudent, CohortID: 20}, offering) {
		t.Error("students never modify offerings")
	}
}

func TestScopeOfferingFilters(t *testing.T) {
	t.Run("FacilitatorScopedToOwnID", func(t *testing.T) {
		actor := &Actor{Role: models.RoleFacilitator, FacilitatorID: 7}
		filters := scopeOfferingFilters(actor, repositories.OfferingFilters{})
		if filters.FacilitatorID == nil || *filters.FacilitatorID != 7 {
			t.Error("expected facilitator filter to be forced")
		}
	})

	t.Run("StudentScopedToCohort", func(t *testing.T) {
		actor := &Actor{Role: models.RoleStudent, CohortID: 4}
		filters := scopeOfferingFilters(actor, repositories.OfferingFilters{})
		if filters.CohortID == nil || *filters.CohortID != 4 {
			t.Error("expected cohort filter to be forced")
		}
	})

	t.Run("ManagerUnscoped", func(t *testing.T) {
		actor := &Actor{Role: models.RoleManager}
		filters := scopeOfferingFilters(actor, repositories.OfferingFilters{})
		if filters.FacilitatorID != nil || filters.CohortID != nil {
			t.Error("manager filters must stay untouched")
		}
	})

	t.Run("FacilitatorCannotWidenScope", func(t *testing.T) {
		other := uint(99)
		actor := &Actor{Role: models.RoleFacilitator, FacilitatorID: 7}
		filters := scopeOfferingFilters(actor, repositories.OfferingFilters{FacilitatorID: &other})
		if *filters.FacilitatorID != 7 {
			t.Error("requested foreign facilitator filter must be overridden")
		}
	})
}

func TestResolveActor(t *testing.T) {
	ctx := context.Background()

	t.Run("StudentCarriesCohort", func(t *testing.T) {
		repo := newMockRepository()
		user := &models.User{Email: "s@example.com", Role: models.RoleStudent, IsActive: true}
		if err := repo.User().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		student := &models.Student{UserID: user.ID, StudentID: "S-1", CohortID: 42}
		if err := repo.User().CreateStudent(ctx, student); err != nil {
			t.Fatalf("seed student: %v", err)
		}

		actor, err := resolveActor(ctx, repo, user.ID)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !actor.IsStudent() || actor.CohortID != 42 || actor.StudentID != student.ID {
			t.Errorf("unexpected actor: %+v", actor)
		}
	})

	t.Run("InactiveUserRejected", func(t *testing.T) {
		repo := newMockRepository()
		user := &models.User{Email: "off@example.com", Role: models.RoleManager, IsActive: false}
		if err := repo.User().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}

		_, err := resolveActor(ctx, repo, user.ID)
		if !errors.Is(err, ErrAccountInactive) {
			t.Fatalf("expected inactive account error, got %v", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo := newMockRepository()
		_, err := resolveActor(ctx, repo, 123)
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})
}
