package services

import (
	"context"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

// Actor is the resolved identity behind a request. Role record IDs are
// zero unless the user holds that role.
type Actor struct {
	UserID        uint
	Role          models.UserRole
	ManagerID     uint
	FacilitatorID uint
	StudentID     uint

	// CohortID is the student's cohort, used to narrow read scope.
	CohortID uint
}

func (a *Actor) IsManager() bool {
	return a.Role == models.RoleManager
}

func (a *Actor) IsFacilitator() bool {
	return a.Role == models.RoleFacilitator
}

func (a *Actor) IsStudent() bool {
	return a.Role == models.RoleStudent
}

// resolveActor builds an Actor from the stored user and its role record.
func resolveActor(ctx context.Context, repo repositories.Repository, userID uint) (*Actor, error) {
	user, err := repo.User().GetByIDWithRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	actor := &Actor{
		UserID: user.ID,
		Role:   user.Role,
	}

	switch user.Role {
	case models.RoleManager:
		if user.Manager != nil {
			actor.ManagerID = user.Manager.ID
		}
	case models.RoleFacilitator:
		if user.Facilitator != nil {
			actor.FacilitatorID = user.Facilitator.ID
		}
	case models.RoleStudent:
		if user.Student != nil {
			actor.StudentID = user.Student.ID
			actor.CohortID = user.Student.CohortID
		}
	}

	return actor, nil
}

// canAccessOffering decides whether the actor may read the given
// offering. Managers see all offerings; facilitators see their own;
// students see offerings for their cohort.
func canAccessOffering(actor *Actor, offering *models.CourseOffering) bool {
	switch actor.Role {
	case models.RoleManager:
		return true
	case models.RoleFacilitator:
		return offering.FacilitatorID == actor.FacilitatorID
	case models.RoleStudent:
		return offering.CohortID == actor.CohortID
	}
	return false
}

// canModifyOffering decides write access. Students never write
// offerings; facilitators only write their own.
func canModifyOffering(actor *Actor, offering *models.CourseOffering) bool {
	switch actor.Role {
	case models.RoleManager:
		return true
	case models.RoleFacilitator:
		return offering.FacilitatorID == actor.FacilitatorID
	}
	return false
}

// scopeOfferingFilters narrows list queries to what the actor may see
// instead of rejecting the request. Foreign rows silently disappear
// from listings while direct fetches return an explicit denial.
func scopeOfferingFilters(actor *Actor, filters repositories.OfferingFilters) repositories.OfferingFilters {
	switch actor.Role {
	case models.RoleFacilitator:
		filters.FacilitatorID = &actor.FacilitatorID
	case models.RoleStudent:
		filters.CohortID = &actor.CohortID
	}
	return filters
}

// scopeActivityFilters applies the same narrowing to activity listings.
func scopeActivityFilters(actor *Actor, filters repositories.ActivityFilters) repositories.ActivityFilters {
	if actor.Role == models.RoleFacilitator {
		filters.FacilitatorID = &actor.FacilitatorID
	}
	return filters
}
