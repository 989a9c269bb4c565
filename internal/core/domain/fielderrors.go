package domain

import "strings"

// RootField keys errors that apply to the whole payload rather than a
// single field.
const RootField = "root"

// FieldErrors maps a field name (or RootField) to human-readable messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func RootErrors(messages ...string) FieldErrors {
	return FieldErrors{RootField: messages}
}

// ValidationError carries field-level validation failures across the
// service boundary without losing the per-field structure.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, messages := range e.Fields {
		parts = append(parts, field+": "+strings.Join(messages, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}
