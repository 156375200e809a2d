package application

import (
	"errors"
	"sort"
)

var (
	// ErrUnauthorized is returned when the acting user lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique resource is created twice.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrStore wraps unexpected failures of the underlying store.
	ErrStore = errors.New("application: store failure")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Message returns the message for field, or the first message in field order
// when field is empty.
func (v *ValidationError) Message(field string) string {
	if !v.HasErrors() {
		return ""
	}
	if field != "" {
		return v.FieldErrors[field]
	}
	keys := make([]string, 0, len(v.FieldErrors))
	for k := range v.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return v.FieldErrors[keys[0]]
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// fieldError builds a single-field validation error.
func fieldError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.add(field, message)
	return v
}
