package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type completionRow struct {
	UserID       uuid.UUID `db:"user_id"`
	LessonID     uuid.UUID `db:"lesson_id"`
	SubmissionID string    `db:"submission_id"`
	Outcome      []byte    `db:"outcome"`
	CreatedAt    time.Time `db:"created_at"`
}

// PostgresCompletionStore implements store.CompletionStore.
type PostgresCompletionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompletionStore creates a completion store on a connection or transaction.
func NewPostgresCompletionStore(db store.DBTX, logger *slog.Logger) *PostgresCompletionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCompletionStore{
		db:     db,
		logger: logger.With(slog.String("component", "completion_store")),
	}
}

var _ store.CompletionStore = (*PostgresCompletionStore)(nil)

// Get implements store.CompletionStore.Get
func (s *PostgresCompletionStore) Get(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	submissionID string,
) (*domain.LessonCompletion, error) {
	var row completionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, lesson_id, submission_id, outcome, created_at
		FROM lesson_completions
		WHERE user_id = $1 AND lesson_id = $2 AND submission_id = $3`,
		userID, lessonID, submissionID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrCompletionNotFound)
	}

	c := &domain.LessonCompletion{
		UserID:       row.UserID,
		LessonID:     row.LessonID,
		SubmissionID: row.SubmissionID,
		CreatedAt:    row.CreatedAt,
	}
	if err := json.Unmarshal(row.Outcome, &c.Outcome); err != nil {
		return nil, fmt.Errorf("decode completion outcome: %w", err)
	}
	return c, nil
}

// Save implements store.CompletionStore.Save
func (s *PostgresCompletionStore) Save(ctx context.Context, c *domain.LessonCompletion) error {
	outcome, err := json.Marshal(c.Outcome)
	if err != nil {
		return fmt.Errorf("encode completion outcome: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lesson_completions (user_id, lesson_id, submission_id, outcome, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)`,
		c.UserID, c.LessonID, c.SubmissionID, string(outcome), c.CreatedAt)
	return MapError(err)
}
