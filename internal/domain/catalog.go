package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LessonType classifies what a lesson drills.
type LessonType string

// Possible lesson types
const (
	LessonTypeVocabulary LessonType = "vocabulary"
	LessonTypeGrammar    LessonType = "grammar"
	LessonTypePractice   LessonType = "practice"
	LessonTypeStory      LessonType = "story"
	LessonTypeReview     LessonType = "review"
)

// IsValid reports whether t is one of the known lesson types.
func (t LessonType) IsValid() bool {
	switch t {
	case LessonTypeVocabulary,
		LessonTypeGrammar,
		LessonTypePractice,
		LessonTypeStory,
		LessonTypeReview:
		return true
	default:
		return false
	}
}

// MaxWordNumber is the highest vocabulary slot within a unit.
const MaxWordNumber = 20

// LanguagePair is an ordered (from, target) language combination a learner
// can enroll in. Only IsActive may change after creation.
type LanguagePair struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FromLang   string    `json:"from_lang" db:"from_lang"`
	TargetLang string    `json:"target_lang" db:"target_lang"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Unit groups lessons and vocabulary under a book for one language pair.
type Unit struct {
	ID         uuid.UUID `json:"id" db:"id"`
	LangPairID uuid.UUID `json:"lang_pair_id" db:"lang_pair_id"`
	BookTitle  string    `json:"book_title" db:"book_title"`
	CEFRLevel  CEFRLevel `json:"cefr_level" db:"cefr_level"`
	Number     int       `json:"number" db:"number"`
	Title      string    `json:"title" db:"title"`
}

// Validate checks the unit's invariants.
func (u *Unit) Validate() error {
	if u.LangPairID == uuid.Nil {
		return NewValidationError("lang_pair_id", "must be set")
	}
	if u.Number < 1 {
		return NewValidationError("number", "must be at least 1")
	}
	if !u.CEFRLevel.IsValid() {
		return NewValidationError("cefr_level", ErrInvalidCEFRLevel.Error())
	}
	return nil
}

// Lesson is an ordered step within a unit. Lessons are immutable once published.
type Lesson struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UnitID       uuid.UUID  `json:"unit_id" db:"unit_id"`
	Order        int        `json:"order" db:"lesson_order"`
	Title        string     `json:"title" db:"title"`
	LessonType   LessonType `json:"lesson_type" db:"lesson_type"`
	TotalStars   int        `json:"total_stars" db:"total_stars"`
	XPReward     int        `json:"xp_reward" db:"xp_reward"`
	GrammarTopic *string    `json:"grammar_topic" db:"grammar_topic"`
	VocabFrom    *int       `json:"vocab_from" db:"vocab_from"`
	VocabTo      *int       `json:"vocab_to" db:"vocab_to"`
}

// Validate checks the lesson's invariants.
func (l *Lesson) Validate() error {
	if l.UnitID == uuid.Nil {
		return NewValidationError("unit_id", "must be set")
	}
	if l.Order < 1 {
		return NewValidationError("order", "must be at least 1")
	}
	if !l.LessonType.IsValid() {
		return NewValidationError("lesson_type", ErrInvalidLessonType.Error())
	}
	if l.TotalStars < 0 {
		return NewValidationError("total_stars", "cannot be negative")
	}
	if l.XPReward < 0 {
		return NewValidationError("xp_reward", "cannot be negative")
	}
	if l.VocabFrom != nil && l.VocabTo != nil && *l.VocabFrom > *l.VocabTo {
		return NewValidationError("vocab_from", "must not exceed vocab_to")
	}
	return nil
}

// HasGrammarTopic reports whether the lesson teaches a named grammar topic.
func (l *Lesson) HasGrammarTopic() bool {
	return l.GrammarTopic != nil && strings.TrimSpace(*l.GrammarTopic) != ""
}

// DrillsWord reports whether the vocabulary slot falls inside the lesson's
// window. A lesson without a window drills the whole unit.
func (l *Lesson) DrillsWord(wordNumber int) bool {
	if l.VocabFrom != nil && wordNumber < *l.VocabFrom {
		return false
	}
	if l.VocabTo != nil && wordNumber > *l.VocabTo {
		return false
	}
	return true
}

// Vocabulary is a word taught in a unit.
type Vocabulary struct {
	ID              uuid.UUID               `json:"id" db:"id"`
	UnitID          uuid.UUID               `json:"unit_id" db:"unit_id"`
	WordNumber      int                     `json:"word_number" db:"word_number"`
	Word            string                  `json:"word" db:"word"`
	ExampleSentence string                  `json:"example_sentence" db:"example_sentence"`
	Audio           string                  `json:"audio,omitempty" db:"audio"`
	Translations    []VocabularyTranslation `json:"translations" db:"-"`
}

// Validate checks the vocabulary entry's invariants.
func (v *Vocabulary) Validate() error {
	if v.WordNumber < 1 || v.WordNumber > MaxWordNumber {
		return NewValidationError("word_number", "must be between 1 and 20")
	}
	if strings.TrimSpace(v.Word) == "" {
		return NewValidationError("word", "cannot be empty")
	}
	return nil
}

// Translation returns the translation into lang, falling back to the first
// available translation when lang is empty. ok is false when none matches.
func (v *Vocabulary) Translation(lang string) (VocabularyTranslation, bool) {
	for _, t := range v.Translations {
		if lang == "" || strings.EqualFold(t.Language, lang) {
			return t, true
		}
	}
	return VocabularyTranslation{}, false
}

// VocabularyTranslation holds a vocabulary entry's meaning in one language.
type VocabularyTranslation struct {
	VocabularyID       uuid.UUID `json:"vocabulary_id" db:"vocabulary_id"`
	Language           string    `json:"language" db:"language"`
	Translation        string    `json:"translation" db:"translation"`
	ExampleTranslation string    `json:"example_translation" db:"example_translation"`
}
