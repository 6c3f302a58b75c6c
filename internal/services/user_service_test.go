package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

func newUserFixture(t *testing.T) (*userService, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	svc := NewUserService(repo, nil, testLogger(), validator.New()).(*userService)
	return svc, repo
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	manager := &Actor{UserID: 1, Role: models.RoleManager, ManagerID: 1}

	t.Run("CascadesRoleRecord", func(t *testing.T) {
		svc, repo := newUserFixture(t)

		user := &models.User{Email: "student@example.com", Role: models.RoleStudent, IsActive: true}
		if err := repo.User().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		student := &models.Student{UserID: user.ID}
		if err := repo.User().CreateStudent(ctx, student); err != nil {
			t.Fatalf("seed student: %v", err)
		}

		if err := svc.Delete(ctx, manager, user.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if _, err := repo.User().GetByID(ctx, user.ID); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("expected user row gone, got %v", err)
		}
		if _, err := repo.User().GetStudentByUserID(ctx, user.ID); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("expected student record to cascade, got %v", err)
		}
	})

	t.Run("BlockedWhileOfferingsReferenceFacilitator", func(t *testing.T) {
		svc, repo := newUserFixture(t)
		_, facilitator := seedOffering(t, repo)

		facUser, err := repo.User().GetByID(ctx, facilitator.UserID)
		if err != nil {
			t.Fatalf("get facilitator user: %v", err)
		}

		err = svc.Delete(ctx, manager, facUser.ID)
		var integrity *repositories.ReferentialIntegrityError
		if !errors.As(err, &integrity) {
			t.Fatalf("expected referential integrity error, got %v", err)
		}

		// The row survives the blocked delete.
		if _, err := repo.User().GetByID(ctx, facUser.ID); err != nil {
			t.Errorf("expected user row to remain, got %v", err)
		}
		if _, err := repo.User().GetFacilitatorByUserID(ctx, facUser.ID); err != nil {
			t.Errorf("expected facilitator record to remain, got %v", err)
		}
	})

	t.Run("ManagerOnly", func(t *testing.T) {
		svc, repo := newUserFixture(t)

		user := &models.User{Email: "someone@example.com", Role: models.RoleStudent, IsActive: true}
		if err := repo.User().Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}

		self := &Actor{UserID: user.ID, Role: models.RoleStudent, StudentID: 1}
		if err := svc.Delete(ctx, self, user.ID); !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected access denied, got %v", err)
		}
	})

	t.Run("UnknownUserNotFound", func(t *testing.T) {
		svc, _ := newUserFixture(t)

		if err := svc.Delete(ctx, manager, 9999); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
