package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

const (
	// DefaultDueReviewLimit caps GetDueReviews when no limit is given.
	DefaultDueReviewLimit = 20
	// MaxDueReviewLimit is the largest page GetDueReviews returns.
	MaxDueReviewLimit = 100
)

// CompleteLessonRequest carries one lesson completion.
type CompleteLessonRequest struct {
	UserID   uuid.UUID
	LessonID uuid.UUID
	Input    domain.CompletionInput

	// SubmissionID is an optional client key. A repeat with the same key for
	// the same user and lesson returns the first outcome without reapplying.
	SubmissionID string
}

// SubmitAnswerRequest carries one answer to a question.
type SubmitAnswerRequest struct {
	UserID       uuid.UUID
	QuestionID   uuid.UUID
	Answer       string
	TimeSpentSec *int
}

// AnswerResult is the grading and review schedule for a submitted answer.
type AnswerResult struct {
	IsCorrect          bool
	CorrectAnswer      string
	Explanation        string
	ReviewIntervalDays int
	NextReviewDate     time.Time
}

// PathLesson is one lesson on a learning path with its derived status.
type PathLesson struct {
	ID          uuid.UUID
	Title       string
	Type        domain.LessonType
	Status      domain.LessonStatus
	StarsEarned int
	TotalStars  int
}

// PathUnit is one unit on a learning path.
type PathUnit struct {
	UnitID     uuid.UUID
	UnitNumber int
	Title      string
	BookTitle  string
	Lessons    []PathLesson
}

// ProgressionService drives a learner through lessons, levels and reviews.
type ProgressionService interface {
	// CompleteLesson records a finished lesson. Progress, streak, XP, level
	// and the unlock of the next lesson change together or not at all.
	CompleteLesson(ctx context.Context, req CompleteLessonRequest) (*domain.CompletionOutcome, error)

	// SubmitAnswer grades an answer and schedules the question's next review.
	SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*AnswerResult, error)

	// GetLearningPath lists the units and lessons of the enrollment's current
	// level with each lesson's status for the user.
	GetLearningPath(ctx context.Context, userID, userLangPairID uuid.UUID) ([]PathUnit, error)

	// GetDueReviews lists questions whose latest attempt is due on or before today.
	GetDueReviews(ctx context.Context, userID uuid.UUID, limit int) ([]store.DueReview, error)
}

// ProgressionOption configures a ProgressionService.
type ProgressionOption func(*progressionService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProgressionOption {
	return func(s *progressionService) {
		s.now = now
	}
}

type progressionService struct {
	stores  store.Stores
	tx      store.Transactor
	srs     srs.Service
	emitter events.EventEmitter
	retrier conflictRetrier
	now     func() time.Time
	logger  *slog.Logger
}

var _ ProgressionService = (*progressionService)(nil)

// NewProgressionService creates a ProgressionService.
// It returns an error if any of the required dependencies are nil.
func NewProgressionService(
	stores store.Stores,
	tx store.Transactor,
	scheduler srs.Service,
	emitter events.EventEmitter,
	cfg config.ProgressionConfig,
	logger *slog.Logger,
	opts ...ProgressionOption,
) (ProgressionService, error) {
	switch {
	case stores.Catalog == nil || stores.Enrollments == nil || stores.Progress == nil ||
		stores.Questions == nil || stores.Attempts == nil || stores.Completions == nil:
		return nil, domain.NewValidationError("stores", "cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil")
	case scheduler == nil:
		return nil, domain.NewValidationError("srs", "cannot be nil")
	case emitter == nil:
		return nil, domain.NewValidationError("emitter", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &progressionService{
		stores:  stores,
		tx:      tx,
		srs:     scheduler,
		emitter: emitter,
		retrier: newConflictRetrier(cfg),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "progression_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// completion is what one CompleteLesson transaction produced.
type completion struct {
	outcome    domain.CompletionOutcome
	langPairID uuid.UUID
	fromLevel  domain.CEFRLevel
	unlocked   []uuid.UUID
	replayed   bool
}

// CompleteLesson implements ProgressionService.
func (s *progressionService) CompleteLesson(
	ctx context.Context,
	req CompleteLessonRequest,
) (*domain.CompletionOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", req.UserID.String()),
		slog.String("lesson_id", req.LessonID.String()))

	if req.UserID == uuid.Nil {
		return nil, NewServiceError("progression", "complete_lesson",
			domain.NewValidationError("user_id", "must be set"))
	}

	var result completion
	attempt := 0
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			log.Debug("retrying lesson completion after conflict", slog.Int("attempt", attempt))
		}
		return s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
			r, err := s.completeLesson(ctx, st, req, s.now())
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		if store.IsConflictError(err) {
			log.Warn("lesson completion kept conflicting", slog.Int("attempts", attempt))
		} else {
			log.Debug("lesson completion failed", slog.String("error", err.Error()))
		}
		return nil, NewServiceError("progression", "complete_lesson", err)
	}

	if result.replayed {
		log.Info("replayed lesson completion", slog.String("submission_id", req.SubmissionID))
		return &result.outcome, nil
	}

	log.Info("lesson completed",
		slog.Bool("first_completion", result.outcome.FirstCompletion),
		slog.Int("xp_earned", result.outcome.XPEarned),
		slog.Int("streak", result.outcome.Streak),
		slog.Bool("level_advanced", result.outcome.LevelAdvanced))

	s.emitCompletion(ctx, log, req, result)
	return &result.outcome, nil
}

// completeLesson is the body of the CompleteLesson transaction.
func (s *progressionService) completeLesson(
	ctx context.Context,
	st store.Stores,
	req CompleteLessonRequest,
	now time.Time,
) (completion, error) {
	lesson, err := st.Catalog.GetLesson(ctx, req.LessonID)
	if err != nil {
		return completion{}, err
	}
	if err := req.Input.Validate(lesson); err != nil {
		return completion{}, err
	}
	unit, err := st.Catalog.GetUnit(ctx, lesson.UnitID)
	if err != nil {
		return completion{}, err
	}

	// The enrollment row is locked first so concurrent completions by the
	// same learner queue up behind it.
	ulp, err := st.Enrollments.GetForUpdate(ctx, req.UserID, unit.LangPairID)
	if err != nil {
		return completion{}, err
	}

	if req.SubmissionID != "" {
		prev, err := st.Completions.Get(ctx, req.UserID, req.LessonID, req.SubmissionID)
		switch {
		case err == nil:
			return completion{outcome: prev.Outcome, replayed: true}, nil
		case !store.IsNotFoundError(err):
			return completion{}, err
		}
	}

	progress, err := lockProgress(ctx, st.Progress, req.UserID, req.LessonID)
	if err != nil {
		return completion{}, err
	}
	first := progress.Complete(req.Input, now)
	if err := st.Progress.Update(ctx, progress); err != nil {
		return completion{}, err
	}

	if err := ulp.AwardXP(req.Input.XPEarned); err != nil {
		return completion{}, err
	}
	ulp.RecordPractice(now)
	if first {
		ulp.RecordFirstCompletion(lesson, req.Input.QuestionsCorrect)
	}

	result := completion{langPairID: unit.LangPairID, fromLevel: ulp.CEFRLevel()}

	var nextLessonID *uuid.UUID
	next, err := st.Catalog.GetNextLesson(ctx, unit.ID, lesson.Order)
	switch {
	case err == nil:
		nextLessonID = &next.ID
		inserted, err := st.Progress.InsertIfAbsent(ctx,
			domain.NewLessonProgress(req.UserID, next.ID, domain.LessonStatusCurrent))
		if err != nil {
			return completion{}, err
		}
		if inserted {
			result.unlocked = append(result.unlocked, next.ID)
		}
	case !store.IsNotFoundError(err):
		return completion{}, err
	}

	advanced, err := s.advanceLevel(ctx, st, ulp)
	if err != nil {
		return completion{}, err
	}
	if advanced {
		opening, err := st.Catalog.GetFirstLesson(ctx, ulp.LangPairID(), ulp.CEFRLevel())
		switch {
		case err == nil:
			inserted, err := st.Progress.InsertIfAbsent(ctx,
				domain.NewLessonProgress(req.UserID, opening.ID, domain.LessonStatusCurrent))
			if err != nil {
				return completion{}, err
			}
			if inserted {
				result.unlocked = append(result.unlocked, opening.ID)
			}
		case !store.IsNotFoundError(err):
			return completion{}, err
		}
	}

	if err := st.Enrollments.Update(ctx, ulp); err != nil {
		return completion{}, err
	}

	result.outcome = domain.CompletionOutcome{
		Status:               progress.Status,
		StarsEarned:          progress.StarsEarned,
		XPEarned:             req.Input.XPEarned,
		Streak:               ulp.CurrStreak(),
		TotalXP:              ulp.TotalXP(),
		FirstCompletion:      first,
		LevelProgressPercent: ulp.LevelProgressPercent(),
		CEFRLevel:            ulp.CEFRLevel(),
		LevelAdvanced:        advanced,
		NextLessonID:         nextLessonID,
	}

	if req.SubmissionID != "" {
		err := st.Completions.Save(ctx, &domain.LessonCompletion{
			UserID:       req.UserID,
			LessonID:     req.LessonID,
			SubmissionID: req.SubmissionID,
			Outcome:      result.outcome,
			CreatedAt:    now.UTC(),
		})
		if err != nil {
			return completion{}, err
		}
	}

	return result, nil
}

// lockProgress returns the learner's progress row for the lesson locked for
// update, creating it as current first when it does not exist.
func lockProgress(
	ctx context.Context,
	progress store.ProgressStore,
	userID, lessonID uuid.UUID,
) (*domain.UserLessonProgress, error) {
	rec, err := progress.GetForUpdate(ctx, userID, lessonID)
	if err == nil {
		return rec, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	// A concurrent insert wins the race; the re-read below picks up its row.
	if _, err := progress.InsertIfAbsent(ctx,
		domain.NewLessonProgress(userID, lessonID, domain.LessonStatusCurrent)); err != nil {
		return nil, err
	}
	return progress.GetForUpdate(ctx, userID, lessonID)
}

// advanceLevel recomputes progress through the learner's current level and
// promotes them when it reaches 100%.
func (s *progressionService) advanceLevel(
	ctx context.Context,
	st store.Stores,
	ulp *domain.UserLanguagePair,
) (bool, error) {
	level := ulp.CEFRLevel()
	total, err := st.Catalog.CountLessons(ctx, ulp.LangPairID(), level)
	if err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	done, err := st.Progress.CountCompleted(ctx, ulp.UserID(), ulp.LangPairID(), level)
	if err != nil {
		return false, err
	}

	ulp.SetLevelProgress(done * domain.LevelCompletePercent / total)
	return ulp.AdvanceLevel(), nil
}

// emitCompletion publishes the events of a committed completion. Failures
// are logged only; the completion already happened.
func (s *progressionService) emitCompletion(
	ctx context.Context,
	log *slog.Logger,
	req CompleteLessonRequest,
	result completion,
) {
	emit := func(eventType string, payload any) {
		event, err := events.NewEvent(eventType, payload)
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			log.Error("failed to emit event",
				slog.String("event_type", eventType),
				slog.String("error", err.Error()))
		}
	}

	emit(events.TypeLessonCompleted, events.LessonCompletedPayload{
		UserID:   req.UserID,
		LessonID: req.LessonID,
		Outcome:  result.outcome,
	})
	for _, id := range result.unlocked {
		emit(events.TypeLessonUnlocked, events.LessonUnlockedPayload{
			UserID:   req.UserID,
			LessonID: id,
		})
	}
	if result.outcome.LevelAdvanced {
		emit(events.TypeLevelAdvanced, events.LevelAdvancedPayload{
			UserID:     req.UserID,
			LangPairID: result.langPairID,
			From:       result.fromLevel,
			To:         result.outcome.CEFRLevel,
		})
	}
}

// SubmitAnswer implements ProgressionService.
func (s *progressionService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", req.UserID.String()),
		slog.String("question_id", req.QuestionID.String()))

	var result AnswerResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		question, err := st.Questions.GetByID(ctx, req.QuestionID)
		if err != nil {
			return err
		}

		previous, err := st.Attempts.GetLatest(ctx, req.UserID, req.QuestionID)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return err
			}
			previous = nil
		}

		now := s.now()
		isCorrect := question.IsCorrectAnswer(req.Answer)
		schedule := s.srs.ScheduleAfter(previous, isCorrect, now)

		attempt, err := domain.NewQuestionAttempt(
			req.UserID,
			req.QuestionID,
			req.Answer,
			isCorrect,
			req.TimeSpentSec,
			schedule.IntervalDays,
			schedule.NextReviewDate,
			now,
		)
		if err != nil {
			return err
		}
		if err := st.Attempts.Create(ctx, attempt); err != nil {
			return err
		}

		result = AnswerResult{
			IsCorrect:          isCorrect,
			CorrectAnswer:      question.CorrectAnswer,
			Explanation:        question.Explanation,
			ReviewIntervalDays: attempt.ReviewIntervalDays,
			NextReviewDate:     attempt.NextReviewDate,
		}
		return nil
	})
	if err != nil {
		log.Debug("answer submission failed", slog.String("error", err.Error()))
		return nil, NewServiceError("progression", "submit_answer", err)
	}

	log.Debug("answer recorded",
		slog.Bool("is_correct", result.IsCorrect),
		slog.Int("review_interval_days", result.ReviewIntervalDays))
	return &result, nil
}

// GetLearningPath implements ProgressionService.
func (s *progressionService) GetLearningPath(
	ctx context.Context,
	userID, userLangPairID uuid.UUID,
) ([]PathUnit, error) {
	ulp, err := s.stores.Enrollments.GetByID(ctx, userLangPairID)
	if err != nil {
		return nil, NewServiceError("progression", "get_learning_path", err)
	}
	if ulp.UserID() != userID {
		return nil, NewServiceError("progression", "get_learning_path",
			fmt.Errorf("%w: %w", store.ErrEnrollmentNotFound, ErrNotOwned))
	}

	units, err := s.stores.Catalog.ListUnits(ctx, ulp.LangPairID(), ulp.CEFRLevel())
	if err != nil {
		return nil, NewServiceError("progression", "get_learning_path", err)
	}

	var lessonIDs []uuid.UUID
	for _, u := range units {
		for _, l := range u.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	progress := make(map[uuid.UUID]domain.UserLessonProgress, len(lessonIDs))
	if len(lessonIDs) > 0 {
		records, err := s.stores.Progress.ListForLessons(ctx, userID, lessonIDs)
		if err != nil {
			return nil, NewServiceError("progression", "get_learning_path", err)
		}
		for _, rec := range records {
			progress[rec.LessonID] = rec
		}
	}

	path := make([]PathUnit, 0, len(units))
	firstOverall, prevCompleted := true, false
	for _, u := range units {
		pu := PathUnit{
			UnitID:     u.Unit.ID,
			UnitNumber: u.Unit.Number,
			Title:      u.Unit.Title,
			BookTitle:  u.Unit.BookTitle,
			Lessons:    make([]PathLesson, 0, len(u.Lessons)),
		}
		for _, l := range u.Lessons {
			pl := PathLesson{
				ID:         l.ID,
				Title:      l.Title,
				Type:       l.LessonType,
				TotalStars: l.TotalStars,
			}
			rec, ok := progress[l.ID]
			switch {
			case ok:
				pl.Status = rec.Status
				pl.StarsEarned = rec.StarsEarned
			case firstOverall || prevCompleted:
				pl.Status = domain.LessonStatusCurrent
			default:
				pl.Status = domain.LessonStatusLocked
			}
			prevCompleted = pl.Status == domain.LessonStatusCompleted
			firstOverall = false
			pu.Lessons = append(pu.Lessons, pl)
		}
		path = append(path, pu)
	}
	return path, nil
}

// GetDueReviews implements ProgressionService.
func (s *progressionService) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]store.DueReview, error) {
	switch {
	case limit <= 0:
		limit = DefaultDueReviewLimit
	case limit > MaxDueReviewLimit:
		limit = MaxDueReviewLimit
	}

	due, err := s.stores.Attempts.ListDue(ctx, userID, domain.DateOf(s.now()), limit)
	if err != nil {
		return nil, NewServiceError("progression", "get_due_reviews", err)
	}
	return due, nil
}

