package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// UnitWithLessons is a unit and its lessons ordered by position.
type UnitWithLessons struct {
	Unit    domain.Unit
	Lessons []domain.Lesson
}

// CatalogStore reads the published course content. Content is immutable
// from the engine's point of view, so there are no write methods.
type CatalogStore interface {
	// ListLanguagePairs returns the language pairs ordered by language codes.
	// With activeOnly set, inactive pairs are left out.
	ListLanguagePairs(ctx context.Context, activeOnly bool) ([]domain.LanguagePair, error)

	// GetLanguagePair returns ErrLanguagePairNotFound if absent.
	GetLanguagePair(ctx context.Context, id uuid.UUID) (*domain.LanguagePair, error)

	// GetUnit returns ErrUnitNotFound if absent.
	GetUnit(ctx context.Context, id uuid.UUID) (*domain.Unit, error)

	// GetLesson returns ErrLessonNotFound if absent.
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// GetNextLesson returns the lesson with the smallest order strictly greater
	// than afterOrder in the unit, or ErrLessonNotFound when it is the last.
	GetNextLesson(ctx context.Context, unitID uuid.UUID, afterOrder int) (*domain.Lesson, error)

	// GetFirstLesson returns the first lesson of the lowest numbered unit of
	// the pair at the given level, or ErrLessonNotFound.
	GetFirstLesson(ctx context.Context, langPairID uuid.UUID, level domain.CEFRLevel) (*domain.Lesson, error)

	// ListUnits returns the pair's units at the level ordered by number,
	// each with its lessons ordered by position. An empty level matches
	// every level.
	ListUnits(ctx context.Context, langPairID uuid.UUID, level domain.CEFRLevel) ([]UnitWithLessons, error)

	// CountLessons counts every lesson of the pair's units at the level.
	CountLessons(ctx context.Context, langPairID uuid.UUID, level domain.CEFRLevel) (int, error)

	// ListLessons returns every lesson of every unit, ordered by pair, unit
	// number and position.
	ListLessons(ctx context.Context) ([]domain.Lesson, error)

	// ListVocabulary returns the unit's vocabulary ordered by word number,
	// with translations populated.
	ListVocabulary(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error)
}
