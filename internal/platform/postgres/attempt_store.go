package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

const attemptColumns = `id, user_id, question_id, user_answer, is_correct, time_spent_sec,
	review_interval_days, next_review_date, attempted_at`

// PostgresAttemptStore implements store.AttemptStore.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates an attempt store on a connection or transaction.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// Create implements store.AttemptStore.Create
func (s *PostgresAttemptStore) Create(ctx context.Context, a *domain.QuestionAttempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question_attempts (`+attemptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.QuestionID, a.UserAnswer, a.IsCorrect, a.TimeSpentSec,
		a.ReviewIntervalDays, a.NextReviewDate, a.AttemptedAt,
	)
	return MapError(err)
}

// GetLatest implements store.AttemptStore.GetLatest
func (s *PostgresAttemptStore) GetLatest(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.QuestionAttempt, error) {
	var a domain.QuestionAttempt
	err := s.db.GetContext(ctx, &a, `
		SELECT `+attemptColumns+`
		FROM question_attempts
		WHERE user_id = $1 AND question_id = $2
		ORDER BY attempted_at DESC, id DESC
		LIMIT 1`, userID, questionID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrAttemptNotFound)
	}
	return &a, nil
}

// dueRow flattens a question and its scheduling attempt.
type dueRow struct {
	domain.Question
	AttemptID          uuid.UUID `db:"attempt_id"`
	UserAnswer         string    `db:"user_answer"`
	IsCorrect          bool      `db:"is_correct"`
	TimeSpentSec       *int      `db:"time_spent_sec"`
	ReviewIntervalDays int       `db:"review_interval_days"`
	NextReviewDate     time.Time `db:"next_review_date"`
	AttemptedAt        time.Time `db:"attempted_at"`
}

// ListDue implements store.AttemptStore.ListDue
func (s *PostgresAttemptStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
	limit int,
) ([]store.DueReview, error) {
	var rows []dueRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+questionColumns+`,
		       a.id AS attempt_id, a.user_answer, a.is_correct, a.time_spent_sec,
		       a.review_interval_days, a.next_review_date, a.attempted_at
		FROM (
			SELECT DISTINCT ON (question_id) *
			FROM question_attempts
			WHERE user_id = $1
			ORDER BY question_id, attempted_at DESC, id DESC
		) a
		JOIN questions q ON q.id = a.question_id
		WHERE a.next_review_date <= $2
		ORDER BY a.next_review_date, q.lesson_id, q.question_order
		LIMIT $3`, userID, domain.DateOf(day), limit)
	if err != nil {
		return nil, MapError(err)
	}

	reviews := make([]store.DueReview, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, store.DueReview{
			Question: r.Question,
			Attempt: domain.QuestionAttempt{
				ID:                 r.AttemptID,
				UserID:             userID,
				QuestionID:         r.Question.ID,
				UserAnswer:         r.UserAnswer,
				IsCorrect:          r.IsCorrect,
				TimeSpentSec:       r.TimeSpentSec,
				ReviewIntervalDays: r.ReviewIntervalDays,
				NextReviewDate:     r.NextReviewDate,
				AttemptedAt:        r.AttemptedAt,
			},
		})
	}
	s.logger.DebugContext(ctx, "listed due reviews",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(reviews)))
	return reviews, nil
}
