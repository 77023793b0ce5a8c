package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

// UnitFilter narrows ListUnits. Zero fields match everything.
type UnitFilter struct {
	Level     domain.CEFRLevel
	BookTitle string
}

// CatalogService serves read-only course content.
type CatalogService interface {
	// ListAvailableLanguagePairs returns the active language pairs learners
	// can enroll in.
	ListAvailableLanguagePairs(ctx context.Context) ([]domain.LanguagePair, error)

	// ListUnits returns a pair's units by number with their lessons.
	ListUnits(ctx context.Context, langPairID uuid.UUID, filter UnitFilter) ([]store.UnitWithLessons, error)

	// GetLessonQuestions returns a lesson's questions by order with their options.
	GetLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error)

	// GetUnitVocabulary returns a unit's vocabulary by word number with translations.
	GetUnitVocabulary(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error)
}

type catalogService struct {
	catalog   store.CatalogStore
	questions store.QuestionStore
	logger    *slog.Logger
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService creates a CatalogService.
func NewCatalogService(stores store.Stores, logger *slog.Logger) (CatalogService, error) {
	if stores.Catalog == nil || stores.Questions == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		catalog:   stores.Catalog,
		questions: stores.Questions,
		logger:    logger.With(slog.String("component", "catalog_service")),
	}, nil
}

// ListAvailableLanguagePairs implements CatalogService.
func (s *catalogService) ListAvailableLanguagePairs(ctx context.Context) ([]domain.LanguagePair, error) {
	pairs, err := s.catalog.ListLanguagePairs(ctx, true)
	if err != nil {
		return nil, NewServiceError("catalog", "list_language_pairs", err)
	}
	return pairs, nil
}

// ListUnits implements CatalogService.
func (s *catalogService) ListUnits(
	ctx context.Context,
	langPairID uuid.UUID,
	filter UnitFilter,
) ([]store.UnitWithLessons, error) {
	if filter.Level != "" && !filter.Level.IsValid() {
		return nil, NewServiceError("catalog", "list_units",
			domain.NewValidationError("cefr_level", domain.ErrInvalidCEFRLevel.Error()))
	}
	if _, err := s.catalog.GetLanguagePair(ctx, langPairID); err != nil {
		return nil, NewServiceError("catalog", "list_units", err)
	}

	units, err := s.catalog.ListUnits(ctx, langPairID, filter.Level)
	if err != nil {
		return nil, NewServiceError("catalog", "list_units", err)
	}
	if filter.BookTitle == "" {
		return units, nil
	}

	matched := make([]store.UnitWithLessons, 0, len(units))
	for _, u := range units {
		if strings.EqualFold(u.Unit.BookTitle, filter.BookTitle) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// GetLessonQuestions implements CatalogService.
func (s *catalogService) GetLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error) {
	if _, err := s.catalog.GetLesson(ctx, lessonID); err != nil {
		return nil, NewServiceError("catalog", "get_lesson_questions", err)
	}
	questions, err := s.questions.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_lesson_questions", err)
	}
	return questions, nil
}

// GetUnitVocabulary implements CatalogService.
func (s *catalogService) GetUnitVocabulary(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error) {
	if _, err := s.catalog.GetUnit(ctx, unitID); err != nil {
		return nil, NewServiceError("catalog", "get_unit_vocabulary", err)
	}
	vocab, err := s.catalog.ListVocabulary(ctx, unitID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_unit_vocabulary", err)
	}
	return vocab, nil
}
