package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/events"
)

// LessonUnlockedHandler queues question generation for lessons that become
// reachable, so a learner rarely opens a lesson without questions.
type LessonUnlockedHandler struct {
	factory *QuestionGenerationTaskFactory
	queue   TaskQueueWriter
	logger  *slog.Logger
}

var _ events.EventHandler = (*LessonUnlockedHandler)(nil)

// NewLessonUnlockedHandler creates a handler that submits tasks built by
// factory to queue.
func NewLessonUnlockedHandler(
	factory *QuestionGenerationTaskFactory,
	queue TaskQueueWriter,
	logger *slog.Logger,
) *LessonUnlockedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LessonUnlockedHandler{
		factory: factory,
		queue:   queue,
		logger:  logger.With(slog.String("component", "lesson_unlocked_handler")),
	}
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (h *LessonUnlockedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeLessonUnlocked {
		return nil
	}

	var payload events.LessonUnlockedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload of event %s: %w", event.ID, err)
	}
	if payload.LessonID == uuid.Nil {
		return fmt.Errorf("event %s: %w", event.ID, ErrEmptyLessonID)
	}

	task, err := h.factory.CreateTask(payload.LessonID, ModeEnsure)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue task for lesson %s: %w", payload.LessonID, err)
	}

	h.logger.DebugContext(ctx, "question generation queued",
		slog.String("task_id", task.ID().String()),
		slog.String("lesson_id", payload.LessonID.String()),
		slog.String("event_id", event.ID.String()))
	return nil
}
