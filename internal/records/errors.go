package records

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a primary-key lookup misses.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ReferentialIntegrityError reports a write that would leave a dangling
// reference: either a foreign key pointing at a missing row, or a delete of a
// row that dependents still point at.
type ReferentialIntegrityError struct {
	Field string
	Table string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("referential integrity violation on %s (%s)", e.Field, e.Table)
}

// DatabaseError wraps a connectivity or query failure so the request boundary
// can map it to a 500 without crashing the process.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
