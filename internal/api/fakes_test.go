package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

type fakeEnrollmentService struct {
	enrollFn func(ctx context.Context, userID, langPairID uuid.UUID, level domain.CEFRLevel) (*domain.UserLanguagePair, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error)
}

func (f *fakeEnrollmentService) Enroll(
	ctx context.Context,
	userID, langPairID uuid.UUID,
	level domain.CEFRLevel,
) (*domain.UserLanguagePair, error) {
	return f.enrollFn(ctx, userID, langPairID, level)
}

func (f *fakeEnrollmentService) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error) {
	return f.listFn(ctx, userID)
}

type fakeProgressionService struct {
	completeFn func(ctx context.Context, req service.CompleteLessonRequest) (*domain.CompletionOutcome, error)
	answerFn   func(ctx context.Context, req service.SubmitAnswerRequest) (*service.AnswerResult, error)
	pathFn     func(ctx context.Context, userID, userLangPairID uuid.UUID) ([]service.PathUnit, error)
	dueFn      func(ctx context.Context, userID uuid.UUID, limit int) ([]store.DueReview, error)
}

func (f *fakeProgressionService) CompleteLesson(
	ctx context.Context,
	req service.CompleteLessonRequest,
) (*domain.CompletionOutcome, error) {
	return f.completeFn(ctx, req)
}

func (f *fakeProgressionService) SubmitAnswer(
	ctx context.Context,
	req service.SubmitAnswerRequest,
) (*service.AnswerResult, error) {
	return f.answerFn(ctx, req)
}

func (f *fakeProgressionService) GetLearningPath(
	ctx context.Context,
	userID, userLangPairID uuid.UUID,
) ([]service.PathUnit, error) {
	return f.pathFn(ctx, userID, userLangPairID)
}

func (f *fakeProgressionService) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]store.DueReview, error) {
	return f.dueFn(ctx, userID, limit)
}

type fakeCatalogService struct {
	pairsFn      func(ctx context.Context) ([]domain.LanguagePair, error)
	unitsFn      func(ctx context.Context, langPairID uuid.UUID, filter service.UnitFilter) ([]store.UnitWithLessons, error)
	questionsFn  func(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error)
	vocabularyFn func(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error)
}

func (f *fakeCatalogService) ListAvailableLanguagePairs(ctx context.Context) ([]domain.LanguagePair, error) {
	return f.pairsFn(ctx)
}

func (f *fakeCatalogService) ListUnits(
	ctx context.Context,
	langPairID uuid.UUID,
	filter service.UnitFilter,
) ([]store.UnitWithLessons, error) {
	return f.unitsFn(ctx, langPairID, filter)
}

func (f *fakeCatalogService) GetLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]domain.Question, error) {
	return f.questionsFn(ctx, lessonID)
}

func (f *fakeCatalogService) GetUnitVocabulary(ctx context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error) {
	return f.vocabularyFn(ctx, unitID)
}

type fakeGenerationService struct {
	generateFn func(ctx context.Context, lessonID uuid.UUID) (int, error)
}

func (f *fakeGenerationService) GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (int, error) {
	return f.generateFn(ctx, lessonID)
}

func (f *fakeGenerationService) EnsureQuestions(ctx context.Context, lessonID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeGenerationService) GenerateAll(ctx context.Context) (service.GenerationSummary, error) {
	return service.GenerationSummary{}, nil
}

var (
	_ service.EnrollmentService  = (*fakeEnrollmentService)(nil)
	_ service.ProgressionService = (*fakeProgressionService)(nil)
	_ service.CatalogService     = (*fakeCatalogService)(nil)
	_ service.GenerationService  = (*fakeGenerationService)(nil)
)
