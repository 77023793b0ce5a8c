package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input or an entity fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrDataIncomplete is reported by question generation when a vocabulary
	// entry lacks the data needed to build a task. It never aborts a batch.
	ErrDataIncomplete = errors.New("data incomplete")

	// ErrInvalidID is returned when an ID is nil or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidLessonType is returned for a lesson type outside the closed set.
	ErrInvalidLessonType = errors.New("invalid lesson type")

	// ErrInvalidQuestionType is returned for a question type outside the closed set.
	ErrInvalidQuestionType = errors.New("invalid question type")

	// ErrInvalidCEFRLevel is returned for a level that is not on the CEFR ladder.
	ErrInvalidCEFRLevel = errors.New("invalid CEFR level")

	// ErrInvalidLessonStatus is returned for a status outside locked/current/completed.
	ErrInvalidLessonStatus = errors.New("invalid lesson status")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
