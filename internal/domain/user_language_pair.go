package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// LevelCompletePercent is the level progress at which a learner may advance.
const LevelCompletePercent = 100

// UserLanguagePairState is the persisted form of a learner's enrollment.
// Stores read and write it; everything else goes through UserLanguagePair.
type UserLanguagePairState struct {
	ID                   uuid.UUID   `json:"id"`
	UserID               uuid.UUID   `json:"user_id"`
	LangPairID           uuid.UUID   `json:"lang_pair_id"`
	CEFRLevel            CEFRLevel   `json:"cefr_level"`
	LevelProgressPercent int         `json:"level_progress_percent"`
	CompletedLevels      []CEFRLevel `json:"completed_levels"`
	TotalXP              int         `json:"total_xp"`
	CurrStreak           int         `json:"curr_streak"`
	LongestStreak        int         `json:"longest_streak"`
	LastPracticeDate     *time.Time  `json:"last_practice_date"`
	TotalWordsLearned    int         `json:"total_words_learned"`
	TotalGrammarTopics   int         `json:"total_grammar_topics"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (s UserLanguagePairState) clone() UserLanguagePairState {
	s.CompletedLevels = slices.Clone(s.CompletedLevels)
	if s.LastPracticeDate != nil {
		d := *s.LastPracticeDate
		s.LastPracticeDate = &d
	}
	return s
}

// UserLanguagePair is a learner's enrollment in a language pair. It owns the
// XP, streak and level counters, which change only through its methods.
type UserLanguagePair struct {
	state UserLanguagePairState
}

// NewUserLanguagePair enrolls a user at the given starting level.
func NewUserLanguagePair(userID, langPairID uuid.UUID, level CEFRLevel) (*UserLanguagePair, error) {
	now := time.Now().UTC()
	return RestoreUserLanguagePair(UserLanguagePairState{
		ID:              uuid.New(),
		UserID:          userID,
		LangPairID:      langPairID,
		CEFRLevel:       level,
		CompletedLevels: []CEFRLevel{},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// RestoreUserLanguagePair rebuilds an aggregate from persisted state.
func RestoreUserLanguagePair(state UserLanguagePairState) (*UserLanguagePair, error) {
	switch {
	case state.UserID == uuid.Nil:
		return nil, NewValidationError("user_id", "must be set")
	case state.LangPairID == uuid.Nil:
		return nil, NewValidationError("lang_pair_id", "must be set")
	case !state.CEFRLevel.IsValid():
		return nil, NewValidationError("cefr_level", ErrInvalidCEFRLevel.Error())
	case state.LevelProgressPercent < 0 || state.LevelProgressPercent > LevelCompletePercent:
		return nil, NewValidationError("level_progress_percent", "must be between 0 and 100")
	case state.TotalXP < 0:
		return nil, NewValidationError("total_xp", "cannot be negative")
	case state.CurrStreak < 0 || state.LongestStreak < state.CurrStreak:
		return nil, NewValidationError("longest_streak", "must be at least curr_streak")
	}
	if state.CompletedLevels == nil {
		state.CompletedLevels = []CEFRLevel{}
	}
	if state.LastPracticeDate != nil {
		d := DateOf(*state.LastPracticeDate)
		state.LastPracticeDate = &d
	}
	return &UserLanguagePair{state: state.clone()}, nil
}

// State returns a copy of the aggregate's state.
func (u *UserLanguagePair) State() UserLanguagePairState {
	return u.state.clone()
}

// MarshalJSON renders the state.
func (u *UserLanguagePair) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.state)
}

func (u *UserLanguagePair) ID() uuid.UUID { return u.state.ID }
func (u *UserLanguagePair) UserID() uuid.UUID { return u.state.UserID }
func (u *UserLanguagePair) LangPairID() uuid.UUID { return u.state.LangPairID }
func (u *UserLanguagePair) CEFRLevel() CEFRLevel { return u.state.CEFRLevel }
func (u *UserLanguagePair) TotalXP() int { return u.state.TotalXP }
func (u *UserLanguagePair) CurrStreak() int { return u.state.CurrStreak }
func (u *UserLanguagePair) LongestStreak() int { return u.state.LongestStreak }
func (u *UserLanguagePair) LevelProgressPercent() int { return u.state.LevelProgressPercent }

// RecordPractice updates the daily streak for a practice on today.
// Repeats on the same day change nothing; a one day gap extends the streak;
// a longer gap restarts it at 1. A date earlier than the last recorded
// practice is treated as the same day.
func (u *UserLanguagePair) RecordPractice(today time.Time) {
	today = DateOf(today)
	last := u.state.LastPracticeDate

	if last == nil {
		u.state.CurrStreak = 1
		u.state.LongestStreak = max(u.state.LongestStreak, 1)
	} else {
		switch days := DaysBetween(*last, today); {
		case days <= 0:
			return
		case days == 1:
			u.state.CurrStreak++
			u.state.LongestStreak = max(u.state.LongestStreak, u.state.CurrStreak)
		default:
			u.state.CurrStreak = 1
		}
	}

	u.state.LastPracticeDate = &today
	u.touch()
}

// AwardXP adds earned experience. Total XP never decreases.
func (u *UserLanguagePair) AwardXP(xp int) error {
	if xp < 0 {
		return NewValidationError("xp_earned", "cannot be negative")
	}
	u.state.TotalXP += xp
	u.touch()
	return nil
}

// RecordFirstCompletion bumps the one-time counters for a lesson completed
// for the first time: correctly answered words for vocabulary lessons and
// one topic for grammar lessons that teach one.
func (u *UserLanguagePair) RecordFirstCompletion(lesson *Lesson, questionsCorrect int) {
	switch lesson.LessonType {
	case LessonTypeVocabulary:
		if questionsCorrect > 0 {
			u.state.TotalWordsLearned += questionsCorrect
		}
	case LessonTypeGrammar:
		if lesson.HasGrammarTopic() {
			u.state.TotalGrammarTopics++
		}
	}
	u.touch()
}

// SetLevelProgress records progress through the current level, clamped to 0..100.
func (u *UserLanguagePair) SetLevelProgress(percent int) {
	u.state.LevelProgressPercent = min(max(percent, 0), LevelCompletePercent)
	u.touch()
}

// AdvanceLevel promotes the learner once the current level is complete. It
// records the finished level, moves to the next rung and resets progress.
// At C2 the level is recorded once and nothing else changes. It returns
// whether the learner moved to a new level.
func (u *UserLanguagePair) AdvanceLevel() bool {
	if u.state.LevelProgressPercent < LevelCompletePercent {
		return false
	}

	current := u.state.CEFRLevel
	if !u.HasCompletedLevel(current) {
		u.state.CompletedLevels = append(u.state.CompletedLevels, current)
		u.touch()
	}

	next, ok := current.Next()
	if !ok {
		return false
	}

	u.state.CEFRLevel = next
	u.state.LevelProgressPercent = 0
	u.touch()
	return true
}

// HasCompletedLevel reports whether level was recorded as finished.
func (u *UserLanguagePair) HasCompletedLevel(level CEFRLevel) bool {
	return slices.Contains(u.state.CompletedLevels, level)
}

func (u *UserLanguagePair) touch() {
	u.state.UpdatedAt = time.Now().UTC()
}
