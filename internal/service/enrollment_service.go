package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// EnrollmentService manages a learner's language pairs.
type EnrollmentService interface {
	// Enroll starts the user on a language pair at level, A1 when empty, and
	// opens the first lesson of that level.
	Enroll(
		ctx context.Context,
		userID, langPairID uuid.UUID,
		level domain.CEFRLevel,
	) (*domain.UserLanguagePair, error)

	// ListEnrollments returns the user's language pairs, newest first.
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error)
}

type enrollmentService struct {
	stores  store.Stores
	tx      store.Transactor
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ EnrollmentService = (*enrollmentService)(nil)

// NewEnrollmentService creates an EnrollmentService.
func NewEnrollmentService(
	stores store.Stores,
	tx store.Transactor,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (EnrollmentService, error) {
	switch {
	case stores.Enrollments == nil || stores.Catalog == nil || stores.Progress == nil:
		return nil, domain.NewValidationError("stores", "cannot be nil")
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil")
	case emitter == nil:
		return nil, domain.NewValidationError("emitter", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &enrollmentService{
		stores:  stores,
		tx:      tx,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "enrollment_service")),
	}, nil
}

// Enroll implements EnrollmentService.
func (s *enrollmentService) Enroll(
	ctx context.Context,
	userID, langPairID uuid.UUID,
	level domain.CEFRLevel,
) (*domain.UserLanguagePair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("lang_pair_id", langPairID.String()))

	if level == "" {
		level = domain.CEFRLevelA1
	}
	if !level.IsValid() {
		return nil, NewServiceError("enrollment", "enroll",
			domain.NewValidationError("cefr_level", domain.ErrInvalidCEFRLevel.Error()))
	}

	var (
		ulp      *domain.UserLanguagePair
		unlocked *uuid.UUID
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		pair, err := st.Catalog.GetLanguagePair(ctx, langPairID)
		if err != nil {
			return err
		}
		if !pair.IsActive {
			return domain.NewValidationError("lang_pair_id", "language pair is not active")
		}

		ulp, err = domain.NewUserLanguagePair(userID, langPairID, level)
		if err != nil {
			return err
		}
		if err := st.Enrollments.Create(ctx, ulp); err != nil {
			return err
		}

		first, err := st.Catalog.GetFirstLesson(ctx, langPairID, level)
		if err != nil {
			if store.IsNotFoundError(err) {
				log.Warn("language pair has no lessons at level", slog.String("cefr_level", string(level)))
				return nil
			}
			return err
		}
		inserted, err := st.Progress.InsertIfAbsent(ctx,
			domain.NewLessonProgress(userID, first.ID, domain.LessonStatusCurrent))
		if err != nil {
			return err
		}
		if inserted {
			unlocked = &first.ID
		}
		return nil
	})
	if err != nil {
		log.Debug("enrollment failed", slog.String("error", err.Error()))
		return nil, NewServiceError("enrollment", "enroll", err)
	}

	log.Info("user enrolled", slog.String("cefr_level", string(level)))

	if unlocked != nil {
		event, err := events.NewEvent(events.TypeLessonUnlocked, events.LessonUnlockedPayload{
			UserID:   userID,
			LessonID: *unlocked,
		})
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			log.Error("failed to emit event",
				slog.String("event_type", events.TypeLessonUnlocked),
				slog.String("error", err.Error()))
		}
	}
	return ulp, nil
}

// ListEnrollments implements EnrollmentService.
func (s *enrollmentService) ListEnrollments(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserLanguagePair, error) {
	list, err := s.stores.Enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("enrollment", "list_enrollments", err)
	}
	return list, nil
}
