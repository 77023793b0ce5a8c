package srs

import "errors"

// DefaultMaxIntervalDays is the ceiling on review spacing. A long run of
// correct answers never schedules a question further out than this.
const DefaultMaxIntervalDays = 90

// ErrInvalidParams is returned when a Params value cannot produce a schedule.
var ErrInvalidParams = errors.New("invalid SRS parameters")

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// Interval assumed for a question that has never been attempted
	InitialIntervalDays int

	// Interval after a wrong answer
	IncorrectIntervalDays int

	// Multiplier applied to the previous interval after a correct answer
	GrowthFactor int

	// Upper bound for any interval
	MaxIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	InitialIntervalDays   int
	IncorrectIntervalDays int
	GrowthFactor          int
	MaxIntervalDays       int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		InitialIntervalDays:   1,
		IncorrectIntervalDays: 1,
		GrowthFactor:          2,
		MaxIntervalDays:       DefaultMaxIntervalDays,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.InitialIntervalDays > 0 {
		params.InitialIntervalDays = config.InitialIntervalDays
	}
	if config.IncorrectIntervalDays > 0 {
		params.IncorrectIntervalDays = config.IncorrectIntervalDays
	}
	if config.GrowthFactor > 0 {
		params.GrowthFactor = config.GrowthFactor
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	return params
}

// Validate checks that the parameters describe a bounded, growing schedule.
func (p *Params) Validate() error {
	switch {
	case p.InitialIntervalDays < 1,
		p.IncorrectIntervalDays < 1,
		p.GrowthFactor < 1,
		p.MaxIntervalDays < p.InitialIntervalDays,
		p.MaxIntervalDays < p.IncorrectIntervalDays:
		return ErrInvalidParams
	}
	return nil
}
