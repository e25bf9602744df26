/*
errors.go - Error types for the PPE core

PURPOSE:
  All error types in one place. Callers classify with errors.Is / errors.As
  or the helpers at the bottom of this file.

ERROR CATEGORIES:
  1. Validation errors - form input rejected before a Record is minted
  2. Store precondition errors - Record rejected at the Store boundary
  3. Conflict errors - duplicate ids, stale versions

SEE ALSO:
  - form.go: Produces ValidationError
  - store.go: Produces precondition and conflict errors
*/
package ppe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all form validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrUnverified is returned when a record without the verified flag is
	// appended.
	ErrUnverified = errors.New("record is not verified")

	// ErrInvalidQuantity is returned when quantity is below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrMissingID is returned when a record has no identifier.
	ErrMissingID = errors.New("record id is required")

	// ErrDuplicateRecordID is returned when a record with the same id is
	// already in the snapshot.
	ErrDuplicateRecordID = errors.New("duplicate record id")

	// ErrConcurrentModification is returned by AppendAt when the snapshot
	// version moved since the caller read it.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrUnknownItem is returned by catalog lookups for missing items.
	ErrUnknownItem = errors.New("unknown catalog item")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError lists every failing form field.
type ValidationError struct {
	Fields map[string]string // field name -> message
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DuplicateRecordError carries the clashing id.
type DuplicateRecordError struct {
	ID string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate record id: %s", e.ID)
}

func (e *DuplicateRecordError) Unwrap() error {
	return ErrDuplicateRecordID
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnverified) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrMissingID) ||
		errors.Is(err, ErrUnknownItem)
}

// IsConflict returns true if the error reports a clash with stored state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateRecordID) ||
		errors.Is(err, ErrConcurrentModification)
}
