package domain

import "strings"

// CEFRLevel is a rung on the Common European Framework proficiency ladder.
type CEFRLevel string

// The ladder, lowest first.
const (
	CEFRLevelA1 CEFRLevel = "A1"
	CEFRLevelA2 CEFRLevel = "A2"
	CEFRLevelB1 CEFRLevel = "B1"
	CEFRLevelB2 CEFRLevel = "B2"
	CEFRLevelC1 CEFRLevel = "C1"
	CEFRLevelC2 CEFRLevel = "C2"
)

var cefrLadder = []CEFRLevel{
	CEFRLevelA1,
	CEFRLevelA2,
	CEFRLevelB1,
	CEFRLevelB2,
	CEFRLevelC1,
	CEFRLevelC2,
}

// CEFRLevels returns the full ladder in ascending order.
func CEFRLevels() []CEFRLevel {
	levels := make([]CEFRLevel, len(cefrLadder))
	copy(levels, cefrLadder)
	return levels
}

// ParseCEFRLevel parses a level name case-insensitively.
func ParseCEFRLevel(s string) (CEFRLevel, error) {
	level := CEFRLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidCEFRLevel
	}
	return level, nil
}

// IsValid reports whether the level is on the ladder.
func (l CEFRLevel) IsValid() bool {
	return l.rank() >= 0
}

// Next returns the following rung. ok is false at C2 or for an invalid level.
func (l CEFRLevel) Next() (next CEFRLevel, ok bool) {
	r := l.rank()
	if r < 0 || r == len(cefrLadder)-1 {
		return l, false
	}
	return cefrLadder[r+1], true
}

// IsTerminal reports whether the level is the top of the ladder.
func (l CEFRLevel) IsTerminal() bool {
	return l == CEFRLevelC2
}

// Less reports whether l is strictly below other on the ladder.
func (l CEFRLevel) Less(other CEFRLevel) bool {
	return l.rank() < other.rank()
}

func (l CEFRLevel) rank() int {
	for i, level := range cefrLadder {
		if level == l {
			return i
		}
	}
	return -1
}
