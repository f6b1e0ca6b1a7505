package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no request matches the given id.
	ErrNotFound = errors.New("request not found")

	// ErrInvalidTransition is returned when a status change would move a
	// request backward or skip a step, e.g. accepting a request that has
	// already been accepted by another volunteer.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStoreUnavailable is returned when neither the cloud nor the
	// local backend can be opened.
	ErrStoreUnavailable = errors.New("request store unavailable")

	// ErrResolutionFailed is returned when an address cannot be geocoded.
	// Recoverable: the caller should prompt for manual coordinates.
	ErrResolutionFailed = errors.New("address resolution failed")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects per-field input errors. Nothing is persisted
// when one is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether a message was recorded for the given field.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}
