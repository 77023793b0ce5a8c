package domain

import (
	"time"

	"github.com/google/uuid"
)

// LessonStatus is a learner's state for one lesson.
type LessonStatus string

// Lesson states. Transitions only move forward: locked, current, completed.
const (
	LessonStatusLocked    LessonStatus = "locked"
	LessonStatusCurrent   LessonStatus = "current"
	LessonStatusCompleted LessonStatus = "completed"
)

// IsValid reports whether s is a known status.
func (s LessonStatus) IsValid() bool {
	switch s {
	case LessonStatusLocked, LessonStatusCurrent, LessonStatusCompleted:
		return true
	default:
		return false
	}
}

// CompletionInput is what a client reports when it finishes a lesson.
type CompletionInput struct {
	StarsEarned        int
	QuestionsCompleted int
	QuestionsCorrect   int
	XPEarned           int
}

// Validate rejects malformed completion reports before anything is written.
func (in CompletionInput) Validate(lesson *Lesson) error {
	switch {
	case in.StarsEarned < 0:
		return NewValidationError("stars_earned", "cannot be negative")
	case lesson != nil && lesson.TotalStars > 0 && in.StarsEarned > lesson.TotalStars:
		return NewValidationError("stars_earned", "exceeds the lesson's total stars")
	case in.QuestionsCompleted < 0:
		return NewValidationError("questions_completed", "cannot be negative")
	case in.QuestionsCorrect < 0:
		return NewValidationError("questions_correct", "cannot be negative")
	case in.QuestionsCorrect > in.QuestionsCompleted:
		return NewValidationError("questions_correct", "cannot exceed questions_completed")
	case in.XPEarned < 0:
		return NewValidationError("xp_earned", "cannot be negative")
	}
	return nil
}

// UserLessonProgress is a learner's record for a single lesson, unique per
// (user, lesson).
type UserLessonProgress struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	UserID             uuid.UUID    `json:"user_id" db:"user_id"`
	LessonID           uuid.UUID    `json:"lesson_id" db:"lesson_id"`
	Status             LessonStatus `json:"status" db:"status"`
	StarsEarned        int          `json:"stars_earned" db:"stars_earned"`
	QuestionsCompleted int          `json:"questions_completed" db:"questions_completed"`
	QuestionsCorrect   int          `json:"questions_correct" db:"questions_correct"`
	Attempts           int          `json:"attempts" db:"attempts"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// NewLessonProgress creates an unattempted record in the given state.
// Unlocking a lesson creates one in LessonStatusCurrent.
func NewLessonProgress(userID, lessonID uuid.UUID, status LessonStatus) *UserLessonProgress {
	now := time.Now().UTC()
	return &UserLessonProgress{
		ID:        uuid.New(),
		UserID:    userID,
		LessonID:  lessonID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasBeenCompleted reports whether the lesson was completed at least once.
func (p *UserLessonProgress) HasBeenCompleted() bool {
	return p.CompletedAt != nil || p.Status == LessonStatusCompleted
}

// Complete applies a completion report. Stars never regress, question counts
// take the latest values and attempts grows by one. It returns true when
// this is the first time the lesson has ever been completed.
func (p *UserLessonProgress) Complete(in CompletionInput, now time.Time) bool {
	first := !p.HasBeenCompleted()

	p.Status = LessonStatusCompleted
	if in.StarsEarned > p.StarsEarned {
		p.StarsEarned = in.StarsEarned
	}
	p.QuestionsCompleted = in.QuestionsCompleted
	p.QuestionsCorrect = in.QuestionsCorrect
	p.Attempts++
	if p.CompletedAt == nil {
		completedAt := now.UTC()
		p.CompletedAt = &completedAt
	}
	p.UpdatedAt = now.UTC()

	return first
}

// CompletionOutcome summarizes what one lesson completion changed.
type CompletionOutcome struct {
	Status               LessonStatus `json:"status"`
	StarsEarned          int          `json:"stars_earned"`
	XPEarned             int          `json:"xp_earned"`
	Streak               int          `json:"streak"`
	TotalXP              int          `json:"total_xp"`
	FirstCompletion      bool         `json:"first_completion"`
	LevelProgressPercent int          `json:"level_progress_percent"`
	CEFRLevel            CEFRLevel    `json:"cefr_level"`
	LevelAdvanced        bool         `json:"level_advanced"`
	NextLessonID         *uuid.UUID   `json:"next_lesson_id,omitempty"`
}

// LessonCompletion records the outcome of a client submission so a retried
// submission with the same ID is answered without being applied twice.
type LessonCompletion struct {
	UserID       uuid.UUID         `json:"user_id"`
	LessonID     uuid.UUID         `json:"lesson_id"`
	SubmissionID string            `json:"submission_id"`
	Outcome      CompletionOutcome `json:"outcome"`
	CreatedAt    time.Time         `json:"created_at"`
}
