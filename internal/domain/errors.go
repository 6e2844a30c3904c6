package domain

import (
	"errors"
	"fmt"
)

// InvariantError is returned when a write to truth state would violate a
// structural rule. Writes that fail never partially apply.
type InvariantError struct {
	// Code identifies the violated invariant.
	Code InvariantCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (ids, times).
	Details map[string]string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeUnknownEntity indicates a referenced person, location or item does not exist.
	ErrCodeUnknownEntity InvariantCode = "UNKNOWN_ENTITY"

	// ErrCodeUnknownEvent indicates a referenced event does not exist.
	ErrCodeUnknownEvent InvariantCode = "UNKNOWN_EVENT"

	// ErrCodeInvalidInterval indicates an end time before its start time.
	ErrCodeInvalidInterval InvariantCode = "INVALID_INTERVAL"

	// ErrCodeDuplicateEntity indicates a node id is already present.
	ErrCodeDuplicateEntity InvariantCode = "DUPLICATE_ENTITY"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantError reports whether err wraps an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// IsCode reports whether err wraps an InvariantError with the given code.
func IsCode(err error, code InvariantCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// NewUnknownEntityError creates an InvariantError for a missing node.
func NewUnknownEntityError(label, id string) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeUnknownEntity,
		Message: fmt.Sprintf("unknown %s id: %s", label, id),
		Details: map[string]string{"kind": label, "id": id},
	}
}

// NewUnknownEventError creates an InvariantError for a missing event.
func NewUnknownEventError(id string) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeUnknownEvent,
		Message: fmt.Sprintf("unknown event id: %s", id),
		Details: map[string]string{"id": id},
	}
}

// NewDuplicateEntityError creates an InvariantError for a repeated node id.
func NewDuplicateEntityError(label, id string) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeDuplicateEntity,
		Message: fmt.Sprintf("%s id already recorded: %s", label, id),
		Details: map[string]string{"kind": label, "id": id},
	}
}

// ValidateInterval checks that end, when set, is not before start.
func ValidateInterval(start int, end *int) error {
	if end != nil && *end < start {
		return &InvariantError{
			Code:    ErrCodeInvalidInterval,
			Message: fmt.Sprintf("end time %d must be >= start time %d", *end, start),
			Details: map[string]string{
				"start": fmt.Sprintf("%d", start),
				"end":   fmt.Sprintf("%d", *end),
			},
		}
	}
	return nil
}
