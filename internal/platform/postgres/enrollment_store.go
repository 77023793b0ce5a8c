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

const enrollmentColumns = `id, user_id, lang_pair_id, cefr_level, level_progress_percent,
	completed_levels, total_xp, curr_streak, longest_streak, last_practice_date,
	total_words_learned, total_grammar_topics, created_at, updated_at`

// enrollmentRow is the user_language_pairs row as scanned by sqlx.
type enrollmentRow struct {
	ID                   uuid.UUID        `db:"id"`
	UserID               uuid.UUID        `db:"user_id"`
	LangPairID           uuid.UUID        `db:"lang_pair_id"`
	CEFRLevel            domain.CEFRLevel `db:"cefr_level"`
	LevelProgressPercent int              `db:"level_progress_percent"`
	CompletedLevels      []byte           `db:"completed_levels"`
	TotalXP              int              `db:"total_xp"`
	CurrStreak           int              `db:"curr_streak"`
	LongestStreak        int              `db:"longest_streak"`
	LastPracticeDate     *time.Time       `db:"last_practice_date"`
	TotalWordsLearned    int              `db:"total_words_learned"`
	TotalGrammarTopics   int              `db:"total_grammar_topics"`
	CreatedAt            time.Time        `db:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at"`
}

func (r *enrollmentRow) toDomain() (*domain.UserLanguagePair, error) {
	var levels []domain.CEFRLevel
	if len(r.CompletedLevels) > 0 {
		if err := json.Unmarshal(r.CompletedLevels, &levels); err != nil {
			return nil, fmt.Errorf("decode completed_levels of enrollment %s: %w", r.ID, err)
		}
	}
	return domain.RestoreUserLanguagePair(domain.UserLanguagePairState{
		ID:                   r.ID,
		UserID:               r.UserID,
		LangPairID:           r.LangPairID,
		CEFRLevel:            r.CEFRLevel,
		LevelProgressPercent: r.LevelProgressPercent,
		CompletedLevels:      levels,
		TotalXP:              r.TotalXP,
		CurrStreak:           r.CurrStreak,
		LongestStreak:        r.LongestStreak,
		LastPracticeDate:     r.LastPracticeDate,
		TotalWordsLearned:    r.TotalWordsLearned,
		TotalGrammarTopics:   r.TotalGrammarTopics,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	})
}

func encodeLevels(levels []domain.CEFRLevel) (string, error) {
	if levels == nil {
		levels = []domain.CEFRLevel{}
	}
	b, err := json.Marshal(levels)
	if err != nil {
		return "", fmt.Errorf("encode completed_levels: %w", err)
	}
	return string(b), nil
}

// PostgresEnrollmentStore implements store.EnrollmentStore.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates an enrollment store on a connection or transaction.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// Create implements store.EnrollmentStore.Create
func (s *PostgresEnrollmentStore) Create(ctx context.Context, ulp *domain.UserLanguagePair) error {
	st := ulp.State()
	levels, err := encodeLevels(st.CompletedLevels)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_language_pairs (`+enrollmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13, $14)`,
		st.ID, st.UserID, st.LangPairID, st.CEFRLevel, st.LevelProgressPercent,
		levels, st.TotalXP, st.CurrStreak, st.LongestStreak, st.LastPracticeDate,
		st.TotalWordsLearned, st.TotalGrammarTopics, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrAlreadyEnrolled, err)
		}
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "enrollment created",
		slog.String("user_language_pair_id", st.ID.String()),
		slog.String("lang_pair_id", st.LangPairID.String()))
	return nil
}

// GetByID implements store.EnrollmentStore.GetByID
func (s *PostgresEnrollmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLanguagePair, error) {
	var row enrollmentRow
	err := s.db.GetContext(ctx, &row, `SELECT `+enrollmentColumns+` FROM user_language_pairs WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err, store.ErrEnrollmentNotFound)
	}
	return row.toDomain()
}

// GetForUpdate implements store.EnrollmentStore.GetForUpdate
func (s *PostgresEnrollmentStore) GetForUpdate(
	ctx context.Context,
	userID, langPairID uuid.UUID,
) (*domain.UserLanguagePair, error) {
	var row enrollmentRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+enrollmentColumns+`
		FROM user_language_pairs
		WHERE user_id = $1 AND lang_pair_id = $2
		FOR UPDATE`, userID, langPairID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrEnrollmentNotFound)
	}
	return row.toDomain()
}

// ListByUser implements store.EnrollmentStore.ListByUser
func (s *PostgresEnrollmentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error) {
	var rows []enrollmentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+enrollmentColumns+`
		FROM user_language_pairs
		WHERE user_id = $1
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, MapError(err)
	}

	result := make([]*domain.UserLanguagePair, 0, len(rows))
	for i := range rows {
		ulp, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, ulp)
	}
	return result, nil
}

// Update implements store.EnrollmentStore.Update
func (s *PostgresEnrollmentStore) Update(ctx context.Context, ulp *domain.UserLanguagePair) error {
	st := ulp.State()
	levels, err := encodeLevels(st.CompletedLevels)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_language_pairs SET
			cefr_level = $2,
			level_progress_percent = $3,
			completed_levels = $4::jsonb,
			total_xp = $5,
			curr_streak = $6,
			longest_streak = $7,
			last_practice_date = $8,
			total_words_learned = $9,
			total_grammar_topics = $10,
			updated_at = $11
		WHERE id = $1`,
		st.ID, st.CEFRLevel, st.LevelProgressPercent, levels, st.TotalXP,
		st.CurrStreak, st.LongestStreak, st.LastPracticeDate,
		st.TotalWordsLearned, st.TotalGrammarTopics, st.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrEnrollmentNotFound)
}
