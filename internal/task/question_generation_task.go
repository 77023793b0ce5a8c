package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNilGenerator  = errors.New("generator cannot be nil")
	ErrEmptyLessonID = errors.New("lesson ID cannot be empty")
	ErrInvalidMode   = errors.New("invalid generation mode")
)

// GenerationMode selects what a QuestionGenerationTask does with existing questions.
type GenerationMode string

const (
	// ModeEnsure generates only when the lesson has no questions yet.
	ModeEnsure GenerationMode = "ensure"
	// ModeRegenerate rebuilds the question set unconditionally.
	ModeRegenerate GenerationMode = "regenerate"
)

// QuestionGenerator is the part of the generation service tasks depend on.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, lessonID uuid.UUID) (int, error)
	EnsureQuestions(ctx context.Context, lessonID uuid.UUID) (int, error)
}

type questionGenerationPayload struct {
	LessonID uuid.UUID      `json:"lesson_id"`
	Mode     GenerationMode `json:"mode"`
}

// QuestionGenerationTask implements Task for one lesson's question set.
type QuestionGenerationTask struct {
	id        uuid.UUID
	lessonID  uuid.UUID
	mode      GenerationMode
	generator QuestionGenerator
	logger    *slog.Logger

	mu        sync.Mutex
	status    TaskStatus
	generated int
}

var _ Task = (*QuestionGenerationTask)(nil)

// NewQuestionGenerationTask creates a pending task.
func NewQuestionGenerationTask(
	lessonID uuid.UUID,
	mode GenerationMode,
	generator QuestionGenerator,
	logger *slog.Logger,
) (*QuestionGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if lessonID == uuid.Nil {
		return nil, ErrEmptyLessonID
	}
	if mode != ModeEnsure && mode != ModeRegenerate {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuestionGenerationTask{
		id:        uuid.New(),
		lessonID:  lessonID,
		mode:      mode,
		generator: generator,
		logger: logger.With(
			slog.String("task_type", TaskTypeQuestionGeneration),
			slog.String("lesson_id", lessonID.String()),
			slog.String("mode", string(mode)),
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *QuestionGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *QuestionGenerationTask) Type() string {
	return TaskTypeQuestionGeneration
}

// LessonID returns the lesson the task generates questions for.
func (t *QuestionGenerationTask) LessonID() uuid.UUID {
	return t.lessonID
}

// Payload returns the task data as a byte slice
func (t *QuestionGenerationTask) Payload() []byte {
	data, err := json.Marshal(questionGenerationPayload{LessonID: t.lessonID, Mode: t.mode})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *QuestionGenerationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Generated returns the number of questions written by the last run.
func (t *QuestionGenerationTask) Generated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generated
}

// Execute runs the generation for the lesson.
func (t *QuestionGenerationTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing, 0)

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusFailed, 0)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	var (
		n   int
		err error
	)
	switch t.mode {
	case ModeRegenerate:
		n, err = t.generator.GenerateQuestions(ctx, t.lessonID)
	default:
		n, err = t.generator.EnsureQuestions(ctx, t.lessonID)
	}
	if err != nil {
		t.setStatus(TaskStatusFailed, 0)
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	t.setStatus(TaskStatusCompleted, n)
	t.logger.Info("question generation task completed", slog.Int("questions", n))
	return nil
}

func (t *QuestionGenerationTask) setStatus(status TaskStatus, generated int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.generated = generated
}

// QuestionGenerationTaskFactory creates QuestionGenerationTask instances
type QuestionGenerationTaskFactory struct {
	generator QuestionGenerator
	logger    *slog.Logger
}

// NewQuestionGenerationTaskFactory creates a new factory for QuestionGenerationTasks
func NewQuestionGenerationTaskFactory(generator QuestionGenerator, logger *slog.Logger) *QuestionGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionGenerationTaskFactory{
		generator: generator,
		logger:    logger,
	}
}

// CreateTask creates a new task for the specified lesson
func (f *QuestionGenerationTaskFactory) CreateTask(lessonID uuid.UUID, mode GenerationMode) (Task, error) {
	task, err := NewQuestionGenerationTask(lessonID, mode, f.generator, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}
