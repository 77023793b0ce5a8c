package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

const questionColumns = `q.id, q.lesson_id, q.question_order, q.vocabulary_id, q.question_type,
	q.prompt, q.correct_answer, q.explanation, COALESCE(q.audio, '') AS audio,
	q.created_at, q.updated_at, q.retired_at`

// PostgresQuestionStore implements store.QuestionStore.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a question store on a connection or transaction.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// Upsert implements store.QuestionStore.Upsert.
// The (lesson_id, question_order) unique key makes regeneration update rows
// in place, so attempts keep pointing at the same question IDs.
func (s *PostgresQuestionStore) Upsert(ctx context.Context, q *domain.Question) (uuid.UUID, error) {
	if err := q.Validate(); err != nil {
		return uuid.Nil, err
	}
	id := q.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var stored uuid.UUID
	err := s.db.GetContext(ctx, &stored, `
		INSERT INTO questions (id, lesson_id, question_order, vocabulary_id, question_type,
		                       prompt, correct_answer, explanation, audio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NOW(), NOW())
		ON CONFLICT (lesson_id, question_order) DO UPDATE SET
			vocabulary_id = EXCLUDED.vocabulary_id,
			question_type = EXCLUDED.question_type,
			prompt = EXCLUDED.prompt,
			correct_answer = EXCLUDED.correct_answer,
			explanation = EXCLUDED.explanation,
			audio = EXCLUDED.audio,
			retired_at = NULL,
			updated_at = NOW()
		RETURNING id`,
		id, q.LessonID, q.Order, q.VocabularyID, q.QuestionType,
		q.Prompt, q.CorrectAnswer, q.Explanation, q.Audio,
	)
	if err != nil {
		return uuid.Nil, MapError(err)
	}
	return stored, nil
}

// ReplaceOptions implements store.QuestionStore.ReplaceOptions
func (s *PostgresQuestionStore) ReplaceOptions(
	ctx context.Context,
	questionID uuid.UUID,
	opts []domain.QuestionOption,
) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM question_options WHERE question_id = $1`, questionID); err != nil {
		return MapError(err)
	}
	for _, opt := range opts {
		id := opt.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO question_options (id, question_id, text, is_correct, option_order)
			VALUES ($1, $2, $3, $4, $5)`,
			id, questionID, opt.Text, opt.IsCorrect, opt.Order)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// RetireAfter implements store.QuestionStore.RetireAfter
func (s *PostgresQuestionStore) RetireAfter(ctx context.Context, lessonID uuid.UUID, lastOrder int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE questions
		SET retired_at = NOW(), updated_at = NOW()
		WHERE lesson_id = $1 AND question_order > $2 AND retired_at IS NULL`,
		lessonID, lastOrder)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return int(n), nil
}

// GetByID implements store.QuestionStore.GetByID
func (s *PostgresQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	var q domain.Question
	err := s.db.GetContext(ctx, &q, `SELECT `+questionColumns+` FROM questions q WHERE q.id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err, store.ErrQuestionNotFound)
	}

	var opts []domain.QuestionOption
	err = s.db.SelectContext(ctx, &opts, `
		SELECT id, question_id, text, is_correct, option_order
		FROM question_options
		WHERE question_id = $1
		ORDER BY option_order`, id)
	if err != nil {
		return nil, MapError(err)
	}
	q.Options = opts
	return &q, nil
}

// ListByLesson implements store.QuestionStore.ListByLesson
func (s *PostgresQuestionStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error) {
	var questions []domain.Question
	err := s.db.SelectContext(ctx, &questions, `
		SELECT `+questionColumns+`
		FROM questions q
		WHERE q.lesson_id = $1 AND q.retired_at IS NULL
		ORDER BY q.question_order`, lessonID)
	if err != nil {
		return nil, MapError(err)
	}
	if len(questions) == 0 {
		return []domain.Question{}, nil
	}

	var opts []domain.QuestionOption
	err = s.db.SelectContext(ctx, &opts, `
		SELECT o.id, o.question_id, o.text, o.is_correct, o.option_order
		FROM question_options o
		JOIN questions q ON q.id = o.question_id
		WHERE q.lesson_id = $1 AND q.retired_at IS NULL
		ORDER BY q.question_order, o.option_order`, lessonID)
	if err != nil {
		return nil, MapError(err)
	}

	index := make(map[uuid.UUID]int, len(questions))
	for i := range questions {
		index[questions[i].ID] = i
	}
	for _, opt := range opts {
		if i, ok := index[opt.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}
	return questions, nil
}
