package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrFacilitatorNotFound  = errors.New("facilitator not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrCohortNotFound       = errors.New("cohort not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrModeNotFound         = errors.New("mode not found")
	ErrOfferingNotFound     = errors.New("course offering not found")
	ErrActivityNotFound     = errors.New("activity tracker not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email is already registered")
)

// PermissionError carries the context of a denied operation for logging
// while unwrapping to ErrAccessDenied for handler mapping.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrAccessDenied
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}
