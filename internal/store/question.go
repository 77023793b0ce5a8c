package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// QuestionStore persists generated questions and their options.
type QuestionStore interface {
	// Upsert inserts the question or updates the row already holding its
	// (lesson, order) key in place, keeping that row's ID and clearing any
	// retirement. It returns the question's ID.
	Upsert(ctx context.Context, q *domain.Question) (uuid.UUID, error)

	// ReplaceOptions deletes the question's options and inserts opts.
	// Run it in the same transaction as Upsert so readers never observe a
	// question without options.
	ReplaceOptions(ctx context.Context, questionID uuid.UUID, opts []domain.QuestionOption) error

	// RetireAfter marks the lesson's active questions positioned after
	// lastOrder as retired and returns how many it marked. Rows are never
	// deleted because attempts reference them.
	RetireAfter(ctx context.Context, lessonID uuid.UUID, lastOrder int) (int, error)

	// GetByID returns the question with options, or ErrQuestionNotFound.
	// Retired questions are returned too.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// ListByLesson returns the lesson's active questions ordered by position,
	// with options.
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error)
}

// DueReview pairs a question with the attempt that scheduled it.
type DueReview struct {
	Question domain.Question
	Attempt  domain.QuestionAttempt
}

// AttemptStore is the append-only answer log.
type AttemptStore interface {
	// Create appends an attempt.
	Create(ctx context.Context, a *domain.QuestionAttempt) error

	// GetLatest returns the user's most recent attempt at the question, or
	// ErrAttemptNotFound.
	GetLatest(ctx context.Context, userID, questionID uuid.UUID) (*domain.QuestionAttempt, error)

	// ListDue returns questions whose latest attempt is due on or before
	// the day, earliest first.
	ListDue(ctx context.Context, userID uuid.UUID, day time.Time, limit int) ([]DueReview, error)
}
