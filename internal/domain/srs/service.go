package srs

import (
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Result is the schedule computed for one attempt.
type Result struct {
	IntervalDays   int
	NextReviewDate time.Time
}

// Service defines the interface for spaced repetition scheduling
type Service interface {
	// Schedule computes the next review from the previous interval.
	Schedule(isCorrect bool, previousIntervalDays int, attemptDate time.Time) Result

	// ScheduleAfter computes the next review from the most recent attempt
	// on the same question, or from scratch when previous is nil.
	ScheduleAfter(previous *domain.QuestionAttempt, isCorrect bool, attemptDate time.Time) Result
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// Schedule implements the Service interface
func (s *defaultService) Schedule(isCorrect bool, previousIntervalDays int, attemptDate time.Time) Result {
	interval, next := schedule(isCorrect, previousIntervalDays, attemptDate, s.params)
	return Result{IntervalDays: interval, NextReviewDate: next}
}

// ScheduleAfter implements the Service interface
func (s *defaultService) ScheduleAfter(
	previous *domain.QuestionAttempt,
	isCorrect bool,
	attemptDate time.Time,
) Result {
	prevInterval := 0
	if previous != nil {
		prevInterval = previous.ReviewIntervalDays
	}
	return s.Schedule(isCorrect, prevInterval, attemptDate)
}
