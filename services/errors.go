package services

import (
	"errors"

	"gorm.io/gorm"
)

// ValidationError reports a request that references something that does not
// exist or would break the data model. Handlers answer it with 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ConflictError reports a clash with existing data, such as a taken slug.
// Handlers answer it with 409.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// conflictOnDuplicate turns a unique-index violation that slipped past the
// pre-check into the same conflict the pre-check would have reported.
func conflictOnDuplicate(err error, reason string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Reason: reason}
	}
	return err
}
