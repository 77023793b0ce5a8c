package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps them with errors.Is.
var (
	// ErrNotOwned indicates a resource belongs to a different user. The API
	// reports it as not found so ownership is not disclosed.
	ErrNotOwned = errors.New("resource is owned by another user")
)

// ServiceError wraps a failure with the service and operation it came from.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError. A nil err yields nil.
func NewServiceError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Op: op, Err: err}
}
