package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// EnrollmentStore persists UserLanguagePair aggregates.
type EnrollmentStore interface {
	// Create inserts a new enrollment. Returns ErrAlreadyEnrolled when the
	// user is already enrolled in the pair.
	Create(ctx context.Context, ulp *domain.UserLanguagePair) error

	// GetByID returns ErrEnrollmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLanguagePair, error)

	// GetForUpdate loads the user's enrollment in the pair and locks it until
	// the surrounding transaction ends. Every write to a learner's progress
	// in the pair takes this lock first, which serializes concurrent
	// completions. Returns ErrEnrollmentNotFound if absent.
	GetForUpdate(ctx context.Context, userID, langPairID uuid.UUID) (*domain.UserLanguagePair, error)

	// ListByUser returns the user's enrollments, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error)

	// Update writes back the aggregate's counters.
	// Returns ErrEnrollmentNotFound if the row no longer exists.
	Update(ctx context.Context, ulp *domain.UserLanguagePair) error
}
