package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCEFRLevel_Next(t *testing.T) {
	t.Parallel()

	levels := CEFRLevels()
	for i := 0; i < len(levels)-1; i++ {
		next, ok := levels[i].Next()
		assert.True(t, ok)
		assert.Equal(t, levels[i+1], next)
		assert.True(t, levels[i].Less(next))
	}

	next, ok := CEFRLevelC2.Next()
	assert.False(t, ok)
	assert.Equal(t, CEFRLevelC2, next)
	assert.True(t, CEFRLevelC2.IsTerminal())

	_, ok = CEFRLevel("D1").Next()
	assert.False(t, ok)
}

func TestParseCEFRLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseCEFRLevel(" b2 ")
	assert.NoError(t, err)
	assert.Equal(t, CEFRLevelB2, level)

	_, err = ParseCEFRLevel("B3")
	assert.ErrorIs(t, err, ErrInvalidCEFRLevel)
}
