package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second enrollment in the same language pair).
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a concurrent writer won a race for the same
	// rows: serialization failures, deadlocks and lock timeouts. Callers should
	// retry the whole transaction.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidReference is returned when a foreign key points at nothing.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrLockHeld is returned when another worker holds a lesson's
	// generation lock. It is a conflict.
	ErrLockHeld = fmt.Errorf("%w: lock held", ErrConflict)

	// Entity-specific "not found" errors

	ErrLanguagePairNotFound = fmt.Errorf("%w: language pair", ErrNotFound)
	ErrUnitNotFound         = fmt.Errorf("%w: unit", ErrNotFound)
	ErrLessonNotFound       = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrQuestionNotFound     = fmt.Errorf("%w: question", ErrNotFound)
	ErrEnrollmentNotFound   = fmt.Errorf("%w: user language pair", ErrNotFound)
	ErrProgressNotFound     = fmt.Errorf("%w: lesson progress", ErrNotFound)
	ErrAttemptNotFound      = fmt.Errorf("%w: question attempt", ErrNotFound)
	ErrCompletionNotFound   = fmt.Errorf("%w: lesson completion", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrAlreadyEnrolled indicates the user already studies the language pair.
	ErrAlreadyEnrolled = fmt.Errorf("%w: enrollment", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError reports whether retrying the transaction may succeed.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "lesson", "question")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
