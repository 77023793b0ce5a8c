package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	assert.Equal(t, 1, params.InitialIntervalDays)
	assert.Equal(t, 1, params.IncorrectIntervalDays)
	assert.Equal(t, 2, params.GrowthFactor)
	assert.Equal(t, 90, params.MaxIntervalDays)
	assert.NoError(t, params.Validate())
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{MaxIntervalDays: 30, GrowthFactor: 3})
	assert.Equal(t, 30, params.MaxIntervalDays)
	assert.Equal(t, 3, params.GrowthFactor)
	assert.Equal(t, 1, params.InitialIntervalDays, "unset fields keep defaults")
	assert.NoError(t, params.Validate())
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	bad := []*Params{
		{InitialIntervalDays: 0, IncorrectIntervalDays: 1, GrowthFactor: 2, MaxIntervalDays: 90},
		{InitialIntervalDays: 1, IncorrectIntervalDays: 1, GrowthFactor: 0, MaxIntervalDays: 90},
		{InitialIntervalDays: 5, IncorrectIntervalDays: 1, GrowthFactor: 2, MaxIntervalDays: 4},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	}
}
