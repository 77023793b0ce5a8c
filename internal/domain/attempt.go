package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionAttempt is an append-only record of one answer, carrying the review
// schedule computed for it.
type QuestionAttempt struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	QuestionID         uuid.UUID `json:"question_id" db:"question_id"`
	UserAnswer         string    `json:"user_answer" db:"user_answer"`
	IsCorrect          bool      `json:"is_correct" db:"is_correct"`
	TimeSpentSec       *int      `json:"time_spent_sec,omitempty" db:"time_spent_sec"`
	ReviewIntervalDays int       `json:"review_interval_days" db:"review_interval_days"`
	NextReviewDate     time.Time `json:"next_review_date" db:"next_review_date"`
	AttemptedAt        time.Time `json:"attempted_at" db:"attempted_at"`
}

// NewQuestionAttempt builds an attempt record. The review fields come from
// the scheduler.
func NewQuestionAttempt(
	userID, questionID uuid.UUID,
	answer string,
	isCorrect bool,
	timeSpentSec *int,
	intervalDays int,
	nextReview time.Time,
	attemptedAt time.Time,
) (*QuestionAttempt, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "must be set")
	}
	if questionID == uuid.Nil {
		return nil, NewValidationError("question_id", "must be set")
	}
	if timeSpentSec != nil && *timeSpentSec < 0 {
		return nil, NewValidationError("time_spent_sec", "cannot be negative")
	}
	if intervalDays < 1 {
		return nil, NewValidationError("review_interval_days", "must be at least 1")
	}
	return &QuestionAttempt{
		ID:                 uuid.New(),
		UserID:             userID,
		QuestionID:         questionID,
		UserAnswer:         NormalizeAnswer(answer),
		IsCorrect:          isCorrect,
		TimeSpentSec:       timeSpentSec,
		ReviewIntervalDays: intervalDays,
		NextReviewDate:     DateOf(nextReview),
		AttemptedAt:        attemptedAt.UTC(),
	}, nil
}
