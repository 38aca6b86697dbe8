package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed reminder field. Writes that
// fail validation are rejected outright; values are never silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	// ErrOwnerNotFound is returned when a reminder write references a user
	// that does not exist.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrNotFound is returned when the requested record does not exist or
	// belongs to another user.
	ErrNotFound = errors.New("not found")
)
