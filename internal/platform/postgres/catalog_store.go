package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

const lessonColumns = `l.id, l.unit_id, l.lesson_order, l.title, l.lesson_type, l.total_stars,
	l.xp_reward, l.grammar_topic, l.vocab_from, l.vocab_to`

// PostgresCatalogStore implements store.CatalogStore.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a catalog store on a connection or transaction.
// If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// ListLanguagePairs implements store.CatalogStore.ListLanguagePairs
func (s *PostgresCatalogStore) ListLanguagePairs(ctx context.Context, activeOnly bool) ([]domain.LanguagePair, error) {
	pairs := []domain.LanguagePair{}
	err := s.db.SelectContext(ctx, &pairs, `
		SELECT id, from_lang, target_lang, is_active, created_at
		FROM language_pairs
		WHERE is_active OR NOT $1
		ORDER BY from_lang, target_lang`, activeOnly)
	if err != nil {
		return nil, MapError(err)
	}
	return pairs, nil
}

// GetLanguagePair implements store.CatalogStore.GetLanguagePair
func (s *PostgresCatalogStore) GetLanguagePair(ctx context.Context, id uuid.UUID) (*domain.LanguagePair, error) {
	var pair domain.LanguagePair
	err := s.db.GetContext(ctx, &pair, `
		SELECT id, from_lang, target_lang, is_active, created_at
		FROM language_pairs WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err, store.ErrLanguagePairNotFound)
	}
	return &pair, nil
}

// GetUnit implements store.CatalogStore.GetUnit
func (s *PostgresCatalogStore) GetUnit(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	var unit domain.Unit
	err := s.db.GetContext(ctx, &unit, `
		SELECT id, lang_pair_id, book_title, cefr_level, number, title
		FROM units WHERE id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err, store.ErrUnitNotFound)
	}
	return &unit, nil
}

// GetLesson implements store.CatalogStore.GetLesson
func (s *PostgresCatalogStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := s.db.GetContext(ctx, &lesson, `SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, id)
	if err != nil {
		return nil, mapNotFound(err, store.ErrLessonNotFound)
	}
	return &lesson, nil
}

// GetNextLesson implements store.CatalogStore.GetNextLesson
func (s *PostgresCatalogStore) GetNextLesson(
	ctx context.Context,
	unitID uuid.UUID,
	afterOrder int,
) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := s.db.GetContext(ctx, &lesson, `
		SELECT `+lessonColumns+`
		FROM lessons l
		WHERE l.unit_id = $1 AND l.lesson_order > $2
		ORDER BY l.lesson_order
		LIMIT 1`, unitID, afterOrder)
	if err != nil {
		return nil, mapNotFound(err, store.ErrLessonNotFound)
	}
	return &lesson, nil
}

// GetFirstLesson implements store.CatalogStore.GetFirstLesson
func (s *PostgresCatalogStore) GetFirstLesson(
	ctx context.Context,
	langPairID uuid.UUID,
	level domain.CEFRLevel,
) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := s.db.GetContext(ctx, &lesson, `
		SELECT `+lessonColumns+`
		FROM lessons l
		JOIN units u ON u.id = l.unit_id
		WHERE u.lang_pair_id = $1 AND u.cefr_level = $2
		ORDER BY u.number, l.lesson_order
		LIMIT 1`, langPairID, level)
	if err != nil {
		return nil, mapNotFound(err, store.ErrLessonNotFound)
	}
	return &lesson, nil
}

// ListUnits implements store.CatalogStore.ListUnits
func (s *PostgresCatalogStore) ListUnits(
	ctx context.Context,
	langPairID uuid.UUID,
	level domain.CEFRLevel,
) ([]store.UnitWithLessons, error) {
	var units []domain.Unit
	err := s.db.SelectContext(ctx, &units, `
		SELECT id, lang_pair_id, book_title, cefr_level, number, title
		FROM units
		WHERE lang_pair_id = $1 AND ($2::text = '' OR cefr_level = $2::text)
		ORDER BY number`, langPairID, level)
	if err != nil {
		return nil, MapError(err)
	}
	if len(units) == 0 {
		return []store.UnitWithLessons{}, nil
	}

	var lessons []domain.Lesson
	err = s.db.SelectContext(ctx, &lessons, `
		SELECT `+lessonColumns+`
		FROM lessons l
		JOIN units u ON u.id = l.unit_id
		WHERE u.lang_pair_id = $1 AND ($2::text = '' OR u.cefr_level = $2::text)
		ORDER BY u.number, l.lesson_order`, langPairID, level)
	if err != nil {
		return nil, MapError(err)
	}

	byUnit := make(map[uuid.UUID][]domain.Lesson, len(units))
	for _, l := range lessons {
		byUnit[l.UnitID] = append(byUnit[l.UnitID], l)
	}

	result := make([]store.UnitWithLessons, 0, len(units))
	for _, u := range units {
		ls := byUnit[u.ID]
		if ls == nil {
			ls = []domain.Lesson{}
		}
		result = append(result, store.UnitWithLessons{Unit: u, Lessons: ls})
	}
	return result, nil
}

// CountLessons implements store.CatalogStore.CountLessons
func (s *PostgresCatalogStore) CountLessons(
	ctx context.Context,
	langPairID uuid.UUID,
	level domain.CEFRLevel,
) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM lessons l
		JOIN units u ON u.id = l.unit_id
		WHERE u.lang_pair_id = $1 AND u.cefr_level = $2`, langPairID, level)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// ListLessons implements store.CatalogStore.ListLessons
func (s *PostgresCatalogStore) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := s.db.SelectContext(ctx, &lessons, `
		SELECT `+lessonColumns+`
		FROM lessons l
		JOIN units u ON u.id = l.unit_id
		ORDER BY u.lang_pair_id, u.number, l.lesson_order`)
	if err != nil {
		return nil, MapError(err)
	}
	return lessons, nil
}

// ListVocabulary implements store.CatalogStore.ListVocabulary
func (s *PostgresCatalogStore) ListVocabulary(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error) {
	var vocab []domain.Vocabulary
	err := s.db.SelectContext(ctx, &vocab, `
		SELECT id, unit_id, word_number, word,
		       COALESCE(example_sentence, '') AS example_sentence,
		       COALESCE(audio, '') AS audio
		FROM vocabulary
		WHERE unit_id = $1
		ORDER BY word_number`, unitID)
	if err != nil {
		return nil, MapError(err)
	}
	if len(vocab) == 0 {
		return []domain.Vocabulary{}, nil
	}

	var translations []domain.VocabularyTranslation
	err = s.db.SelectContext(ctx, &translations, `
		SELECT t.vocabulary_id, t.language, t.translation,
		       COALESCE(t.example_translation, '') AS example_translation
		FROM vocabulary_translations t
		JOIN vocabulary v ON v.id = t.vocabulary_id
		WHERE v.unit_id = $1
		ORDER BY v.word_number, t.language`, unitID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, MapError(err)
	}

	index := make(map[uuid.UUID]int, len(vocab))
	for i := range vocab {
		index[vocab[i].ID] = i
		vocab[i].Translations = []domain.VocabularyTranslation{}
	}
	for _, t := range translations {
		i, ok := index[t.VocabularyID]
		if !ok {
			return nil, fmt.Errorf("translation for unknown vocabulary %s", t.VocabularyID)
		}
		vocab[i].Translations = append(vocab[i].Translations, t)
	}

	s.logger.DebugContext(ctx, "loaded unit vocabulary",
		slog.String("unit_id", unitID.String()),
		slog.Int("entries", len(vocab)),
		slog.Int("translations", len(translations)))
	return vocab, nil
}
