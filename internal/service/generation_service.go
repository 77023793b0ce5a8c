package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// GenerationSummary reports a GenerateAll run.
type GenerationSummary struct {
	Lessons   int
	Questions int
	Skipped   int
	Failed    int
}

// GenerationService synthesizes lesson questions from unit vocabulary.
type GenerationService interface {
	// GenerateQuestions regenerates a lesson's questions and returns how many
	// were written. A run already in progress for the lesson yields a conflict.
	GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (int, error)

	// EnsureQuestions generates questions only for a lesson that has none.
	// It returns zero when there was nothing to do.
	EnsureQuestions(ctx context.Context, lessonID uuid.UUID) (int, error)

	// GenerateAll regenerates every lesson of the catalog. Failures of single
	// lessons are counted and joined into the returned error without
	// stopping the run.
	GenerateAll(ctx context.Context) (GenerationSummary, error)
}

type generationService struct {
	stores         store.Stores
	tx             store.Transactor
	locker         store.LessonLocker
	engine         *generation.Engine
	emitter        events.EventEmitter
	nativeLanguage string
	logger         *slog.Logger
}

var _ GenerationService = (*generationService)(nil)

// NewGenerationService creates a GenerationService.
func NewGenerationService(
	stores store.Stores,
	tx store.Transactor,
	locker store.LessonLocker,
	engine *generation.Engine,
	emitter events.EventEmitter,
	cfg config.GenerationConfig,
	logger *slog.Logger,
) (GenerationService, error) {
	switch {
	case stores.Catalog == nil || stores.Questions == nil:
		return nil, domain.NewValidationError("stores", "cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil")
	case locker == nil:
		return nil, domain.NewValidationError("locker", "cannot be nil")
	case engine == nil:
		return nil, domain.NewValidationError("engine", "cannot be nil")
	case emitter == nil:
		return nil, domain.NewValidationError("emitter", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generationService{
		stores:         stores,
		tx:             tx,
		locker:         locker,
		engine:         engine,
		emitter:        emitter,
		nativeLanguage: cfg.NativeLanguage,
		logger:         logger.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateQuestions implements GenerationService.
func (s *generationService) GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (int, error) {
	release, err := s.locker.Acquire(ctx, lessonID)
	if err != nil {
		return 0, NewServiceError("generation", "generate_questions", err)
	}
	defer release()

	n, err := s.generate(ctx, lessonID)
	if err != nil {
		return 0, NewServiceError("generation", "generate_questions", err)
	}
	return n, nil
}

// EnsureQuestions implements GenerationService.
func (s *generationService) EnsureQuestions(ctx context.Context, lessonID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("lesson_id", lessonID.String()))

	release, err := s.locker.Acquire(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLockHeld) {
			log.Debug("generation already running, nothing to ensure")
			return 0, nil
		}
		return 0, NewServiceError("generation", "ensure_questions", err)
	}
	defer release()

	existing, err := s.stores.Questions.ListByLesson(ctx, lessonID)
	if err != nil {
		return 0, NewServiceError("generation", "ensure_questions", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n, err := s.generate(ctx, lessonID)
	if err != nil {
		return 0, NewServiceError("generation", "ensure_questions", err)
	}
	return n, nil
}

// GenerateAll implements GenerationService.
func (s *generationService) GenerateAll(ctx context.Context) (GenerationSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lessons, err := s.stores.Catalog.ListLessons(ctx)
	if err != nil {
		return GenerationSummary{}, NewServiceError("generation", "generate_all", err)
	}

	var (
		summary GenerationSummary
		errs    []error
	)
	for _, lesson := range lessons {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		summary.Lessons++

		n, err := s.GenerateQuestions(ctx, lesson.ID)
		switch {
		case err == nil:
			summary.Questions += n
		case errors.Is(err, store.ErrLockHeld):
			summary.Skipped++
			log.Info("skipping lesson with generation in progress", slog.String("lesson_id", lesson.ID.String()))
		default:
			summary.Failed++
			errs = append(errs, fmt.Errorf("lesson %s: %w", lesson.ID, err))
			log.Error("lesson generation failed",
				slog.String("lesson_id", lesson.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	log.Info("generation run finished",
		slog.Int("lessons", summary.Lessons),
		slog.Int("questions", summary.Questions),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))

	return summary, errors.Join(errs...)
}

// generate builds and stores a lesson's questions. The caller holds the lesson lock.
func (s *generationService) generate(ctx context.Context, lessonID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("lesson_id", lessonID.String()))

	lesson, err := s.stores.Catalog.GetLesson(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	unit, err := s.stores.Catalog.GetUnit(ctx, lesson.UnitID)
	if err != nil {
		return 0, err
	}
	pair, err := s.stores.Catalog.GetLanguagePair(ctx, unit.LangPairID)
	if err != nil {
		return 0, err
	}
	pool, err := s.stores.Catalog.ListVocabulary(ctx, unit.ID)
	if err != nil {
		return 0, err
	}

	targets := make([]domain.Vocabulary, 0, len(pool))
	for _, v := range pool {
		if lesson.DrillsWord(v.WordNumber) {
			targets = append(targets, v)
		}
	}

	language := pair.FromLang
	if language == "" {
		language = s.nativeLanguage
	}

	result := s.engine.Build(generation.Input{
		LessonID: lesson.ID,
		Targets:  targets,
		Pool:     pool,
		Language: language,
	})
	for _, issue := range result.Issues {
		log.Warn("vocabulary data incomplete",
			slog.String("vocabulary_id", issue.VocabularyID.String()),
			slog.String("word", issue.Word),
			slog.String("reason", issue.Reason))
	}

	var retired int
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		for i := range result.Questions {
			q := &result.Questions[i]
			id, err := st.Questions.Upsert(ctx, q)
			if err != nil {
				return fmt.Errorf("question %s: %w", q.Key(), err)
			}
			if err := st.Questions.ReplaceOptions(ctx, id, q.Options); err != nil {
				return fmt.Errorf("options of question %s: %w", q.Key(), err)
			}
		}
		n, err := st.Questions.RetireAfter(ctx, lesson.ID, len(result.Questions))
		if err != nil {
			return fmt.Errorf("retire questions: %w", err)
		}
		retired = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info("questions generated",
		slog.Int("count", len(result.Questions)),
		slog.Int("retired", retired),
		slog.Int("targets", len(targets)),
		slog.Int("issues", len(result.Issues)))

	event, err := events.NewEvent(events.TypeQuestionsGenerated, events.QuestionsGeneratedPayload{
		LessonID: lesson.ID,
		Count:    len(result.Questions),
		Issues:   len(result.Issues),
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Error("failed to emit event",
			slog.String("event_type", events.TypeQuestionsGenerated),
			slog.String("error", err.Error()))
	}

	return len(result.Questions), nil
}
