package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

const progressColumns = `id, user_id, lesson_id, status, stars_earned, questions_completed,
	questions_correct, attempts, completed_at, created_at, updated_at`

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store on a connection or transaction.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// GetForUpdate implements store.ProgressStore.GetForUpdate
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.UserLessonProgress, error) {
	var p domain.UserLessonProgress
	err := s.db.GetContext(ctx, &p, `
		SELECT `+progressColumns+`
		FROM user_lesson_progress
		WHERE user_id = $1 AND lesson_id = $2
		FOR UPDATE`, userID, lessonID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrProgressNotFound)
	}
	return &p, nil
}

// InsertIfAbsent implements store.ProgressStore.InsertIfAbsent.
// A concurrent insert of the same (user, lesson) row is not an error; the
// loser simply reports false.
func (s *PostgresProgressStore) InsertIfAbsent(ctx context.Context, p *domain.UserLessonProgress) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO user_lesson_progress (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		p.ID, p.UserID, p.LessonID, p.Status, p.StarsEarned, p.QuestionsCompleted,
		p.QuestionsCorrect, p.Attempts, p.CompletedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.DebugContext(ctx, "lesson progress created",
			slog.String("lesson_id", p.LessonID.String()),
			slog.String("status", string(p.Status)))
	}
	return n > 0, nil
}

// Update implements store.ProgressStore.Update
func (s *PostgresProgressStore) Update(ctx context.Context, p *domain.UserLessonProgress) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE user_lesson_progress SET
			status = $2,
			stars_earned = $3,
			questions_completed = $4,
			questions_correct = $5,
			attempts = $6,
			completed_at = $7,
			updated_at = $8
		WHERE id = $1`,
		p.ID, p.Status, p.StarsEarned, p.QuestionsCompleted, p.QuestionsCorrect,
		p.Attempts, p.CompletedAt, p.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressNotFound)
}

// ListForLessons implements store.ProgressStore.ListForLessons
func (s *PostgresProgressStore) ListForLessons(
	ctx context.Context,
	userID uuid.UUID,
	lessonIDs []uuid.UUID,
) ([]domain.UserLessonProgress, error) {
	if len(lessonIDs) == 0 {
		return []domain.UserLessonProgress{}, nil
	}

	var rows []domain.UserLessonProgress
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+progressColumns+`
		FROM user_lesson_progress
		WHERE user_id = $1 AND lesson_id = ANY($2::uuid[])`,
		userID, uuidStrings(lessonIDs))
	if err != nil {
		return nil, MapError(err)
	}
	return rows, nil
}

// CountCompleted implements store.ProgressStore.CountCompleted
func (s *PostgresProgressStore) CountCompleted(
	ctx context.Context,
	userID, langPairID uuid.UUID,
	level domain.CEFRLevel,
) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM user_lesson_progress p
		JOIN lessons l ON l.id = p.lesson_id
		JOIN units u ON u.id = l.unit_id
		WHERE p.user_id = $1
		  AND u.lang_pair_id = $2
		  AND u.cefr_level = $3
		  AND p.status = 'completed'`, userID, langPairID, level)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// uuidStrings renders ids for a uuid[] parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
