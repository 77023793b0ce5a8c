package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return http.StatusUnauthorized

	// Not found errors, including resources owned by someone else
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrInvalidReference):
		return http.StatusBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return "Invalid token"

	// Not found errors
	case errors.Is(err, store.ErrLanguagePairNotFound):
		return "Language pair not found"
	case errors.Is(err, store.ErrUnitNotFound):
		return "Unit not found"
	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"
	case errors.Is(err, store.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, store.ErrEnrollmentNotFound):
		return "Enrollment not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrAlreadyEnrolled):
		return "Already enrolled in this language pair"
	case errors.Is(err, store.ErrLockHeld):
		return "Question generation already in progress"
	case errors.Is(err, store.ErrConflict):
		return "The request conflicted with a concurrent update, please retry"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors. Domain validation messages are fixed strings.
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, store.ErrInvalidReference):
		return "Referenced resource does not exist"

	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err and logs the redacted
// details. defaultMessage replaces the generic text of a 500 response.
// Lock contention is logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMessage != "" {
		message = defaultMessage
	}
	var opts []shared.ResponseOption
	if errors.Is(err, store.ErrLockHeld) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 response for a rejected request body.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	}

	errMsg := err.Error()

	// Validator errors that lost their type, e.g.
	// "Key: 'EnrollRequest.CEFRLevel' Error:Field validation for 'CEFRLevel' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
