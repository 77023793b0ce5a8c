package srs

import (
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Schedule computes the review interval and date for an attempt using the
// default parameters. A wrong answer collapses the interval to one day; a
// correct one doubles the previous interval up to 90 days. Pass 0 as
// previousIntervalDays for a question's first attempt.
func Schedule(isCorrect bool, previousIntervalDays int, attemptDate time.Time) (int, time.Time) {
	return schedule(isCorrect, previousIntervalDays, attemptDate, NewDefaultParams())
}

// calculateNewInterval determines the next interval in days.
//
// Previous intervals below one day (including a missing previous attempt)
// are treated as InitialIntervalDays, so the first correct answer yields
// InitialIntervalDays * GrowthFactor.
func calculateNewInterval(isCorrect bool, previousIntervalDays int, params *Params) int {
	if !isCorrect {
		return params.IncorrectIntervalDays
	}

	prev := previousIntervalDays
	if prev < 1 {
		prev = params.InitialIntervalDays
	}

	// Growth is capped before multiplying so a huge stored interval cannot overflow.
	if prev >= params.MaxIntervalDays {
		return params.MaxIntervalDays
	}
	return min(prev*params.GrowthFactor, params.MaxIntervalDays)
}

// schedule is the pure calculation shared by Schedule and the Service.
func schedule(
	isCorrect bool,
	previousIntervalDays int,
	attemptDate time.Time,
	params *Params,
) (int, time.Time) {
	interval := calculateNewInterval(isCorrect, previousIntervalDays, params)
	return interval, domain.AddDays(attemptDate, interval)
}
