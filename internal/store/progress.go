package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ProgressStore persists per-lesson learner state.
type ProgressStore interface {
	// GetForUpdate loads and row-locks the user's record for a lesson.
	// Returns ErrProgressNotFound if none exists.
	GetForUpdate(ctx context.Context, userID, lessonID uuid.UUID) (*domain.UserLessonProgress, error)

	// InsertIfAbsent creates the record unless one already exists for the
	// (user, lesson) pair. It reports whether a row was created.
	InsertIfAbsent(ctx context.Context, p *domain.UserLessonProgress) (bool, error)

	// Update writes a record back. Returns ErrProgressNotFound if absent.
	Update(ctx context.Context, p *domain.UserLessonProgress) error

	// ListForLessons returns the user's records for the given lessons.
	ListForLessons(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]domain.UserLessonProgress, error)

	// CountCompleted counts the user's completed lessons among the pair's
	// units at the level.
	CountCompleted(ctx context.Context, userID, langPairID uuid.UUID, level domain.CEFRLevel) (int, error)
}

// CompletionStore keeps submission outcomes for duplicate detection.
type CompletionStore interface {
	// Get returns ErrCompletionNotFound if the submission is unknown.
	Get(ctx context.Context, userID, lessonID uuid.UUID, submissionID string) (*domain.LessonCompletion, error)

	// Save records a submission. Returns ErrDuplicate if it already exists.
	Save(ctx context.Context, c *domain.LessonCompletion) error
}
