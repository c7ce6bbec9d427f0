// Package shared contains common domain types, errors, and events
// that are used across all domain packages. This package has zero
// external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")

	// Storage errors
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrCorruptRecord          = errors.New("corrupt record")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "learner", "progress", "store"
	Op      string // the operation that failed
	Kind    error  // one of the base errors above, for errors.Is matching
	Message string
	Err     error // wrapped cause, if any
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both kind and cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Learner domain errors
var (
	ErrInvalidLearnerID = NewDomainError("learner", "Validate", ErrInvalidID, "learner id is required")
	ErrInvalidModuleID  = NewDomainError("learner", "Validate", ErrInvalidID, "module id is required")
	ErrInvalidLessonID  = NewDomainError("learner", "Validate", ErrInvalidID, "lesson id is required")
	ErrInvalidBadge     = NewDomainError("learner", "Validate", ErrInvalidInput, "badge descriptor must carry an id")
	ErrInvalidTotal     = NewDomainError("learner", "Validate", ErrNegativeValue, "total lessons cannot be negative")
)

// Store errors
var (
	ErrStoreUnavailable = NewDomainError("store", "Access", ErrStorageUnavailable, "key-value store cannot be reached")
	ErrStoreCorrupt     = NewDomainError("store", "Decode", ErrCorruptRecord, "stored blob failed to deserialize")
	ErrStoreConflict    = NewDomainError("store", "Save", ErrConcurrentModification, "snapshot version changed since load")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsStorage checks if the error came from the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrConcurrentModification)
}

// IsCorrupt checks if the error is a corrupt-record error. The engine
// recovers from these locally by falling back to the zero value.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}
