package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ConstraintViolationError reports a store-level uniqueness/range/enum
// violation on a single field or index.
type ConstraintViolationError struct {
	Field      string
	Constraint string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation on %s: %s", e.Field, e.Constraint)
}

// DanglingReferenceError reports a foreign key whose target row is missing
// or inactive at write time.
type DanglingReferenceError struct {
	Field string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("referenced %s does not exist or is inactive", e.Field)
}

// ReferentialIntegrityError reports a delete blocked by dependent rows.
type ReferentialIntegrityError struct {
	Entity     string
	Dependents string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s: still referenced by %s", e.Entity, e.Dependents)
}

// IsNotFoundError reports whether err means the row does not exist,
// regardless of whether it came from gorm or this package.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConstraintViolation reports whether err is a uniqueness/check violation.
func IsConstraintViolation(err error) bool {
	var cv *ConstraintViolationError
	return errors.As(err, &cv)
}

// IsDanglingReference reports whether err is a missing FK target.
func IsDanglingReference(err error) bool {
	var dr *DanglingReferenceError
	return errors.As(err, &dr)
}

// IsReferentialIntegrity reports whether err is a blocked delete.
func IsReferentialIntegrity(err error) bool {
	var ri *ReferentialIntegrityError
	return errors.As(err, &ri)
}

// TranslateWriteError maps a driver error from a write into the taxonomy
// above. Postgres reports duplicate keys as SQLSTATE 23505 and FK failures
// as 23503; gorm surfaces ErrDuplicatedKey/ErrForeignKeyViolated when the
// driver supports translation, so both layers are checked.
func TranslateWriteError(err error, field string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key"):
		return &ConstraintViolationError{Field: field, Constraint: "must be unique"}
	case errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(msg, "SQLSTATE 23503") || strings.Contains(msg, "foreign key"):
		return &DanglingReferenceError{Field: field}
	case errors.Is(err, gorm.ErrCheckConstraintViolated) || strings.Contains(msg, "SQLSTATE 23514"):
		return &ConstraintViolationError{Field: field, Constraint: "out of range"}
	}
	return err
}

// TranslateDeleteError maps a driver error from a delete. A foreign key
// failure here means dependent rows still reference the target, which is
// a referential integrity problem rather than a dangling reference.
func TranslateDeleteError(err error, entity, dependents string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(msg, "SQLSTATE 23503") || strings.Contains(msg, "foreign key") {
		return &ReferentialIntegrityError{Entity: entity, Dependents: dependents}
	}
	return err
}
