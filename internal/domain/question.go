package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType is the closed set of task kinds the engine produces.
type QuestionType string

// Possible question types
const (
	QuestionTypeWordTranslate     QuestionType = "word_translate"
	QuestionTypeSentenceTranslate QuestionType = "sentence_translate"
	QuestionTypeFillBlank         QuestionType = "fill_blank"
	QuestionTypeListenType        QuestionType = "listen_type"
)

// IsValid reports whether t is one of the known question types.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeWordTranslate,
		QuestionTypeSentenceTranslate,
		QuestionTypeFillBlank,
		QuestionTypeListenType:
		return true
	default:
		return false
	}
}

// HasOptions reports whether questions of this type are multiple choice.
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeWordTranslate || t == QuestionTypeSentenceTranslate
}

// QuestionKey is the stable business identity of a question: its 1-based
// position within a lesson. Regeneration updates the row sharing the key in
// place so attempt history keeps pointing at the same question.
type QuestionKey struct {
	LessonID uuid.UUID
	Order    int
}

// Validate checks the key.
func (k QuestionKey) Validate() error {
	if k.LessonID == uuid.Nil {
		return NewValidationError("lesson_id", "must be set")
	}
	if k.Order < 1 {
		return NewValidationError("order", "must be at least 1")
	}
	return nil
}

// String implements fmt.Stringer.
func (k QuestionKey) String() string {
	return fmt.Sprintf("%s#%d", k.LessonID, k.Order)
}

// Question is a persisted quiz item.
type Question struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	LessonID      uuid.UUID        `json:"lesson_id" db:"lesson_id"`
	Order         int              `json:"order" db:"question_order"`
	VocabularyID  *uuid.UUID       `json:"vocabulary_id,omitempty" db:"vocabulary_id"`
	QuestionType  QuestionType     `json:"question_type" db:"question_type"`
	Prompt        string           `json:"prompt" db:"prompt"`
	CorrectAnswer string           `json:"correct_answer" db:"correct_answer"`
	Explanation   string           `json:"explanation" db:"explanation"`
	Audio         string           `json:"audio,omitempty" db:"audio"`
	Options       []QuestionOption `json:"options,omitempty" db:"-"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
	// RetiredAt is set once a regeneration no longer produces the question's
	// position. Retired questions keep their attempts but leave the lesson.
	RetiredAt *time.Time `json:"retired_at,omitempty" db:"retired_at"`
}

// Retired reports whether the question was dropped from its lesson.
func (q *Question) Retired() bool {
	return q.RetiredAt != nil
}

// Key returns the question's stable identity.
func (q *Question) Key() QuestionKey {
	return QuestionKey{LessonID: q.LessonID, Order: q.Order}
}

// Validate checks the question's invariants, including the single-correct
// rule for multiple choice questions.
func (q *Question) Validate() error {
	if err := q.Key().Validate(); err != nil {
		return err
	}
	if !q.QuestionType.IsValid() {
		return NewValidationError("question_type", ErrInvalidQuestionType.Error())
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return NewValidationError("correct_answer", "cannot be empty")
	}
	if !q.QuestionType.HasOptions() {
		if len(q.Options) > 0 {
			return NewValidationError("options", "not allowed for "+string(q.QuestionType))
		}
		return nil
	}
	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return NewValidationError("options", "exactly one option must be correct")
	}
	return nil
}

// IsCorrectAnswer compares an answer to the expected one after trimming
// and lowercasing both sides.
func (q *Question) IsCorrectAnswer(answer string) bool {
	return NormalizeAnswer(answer) == NormalizeAnswer(q.CorrectAnswer)
}

// NormalizeAnswer trims and lowercases answer text for comparison.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QuestionOption is one choice of a multiple choice question.
type QuestionOption struct {
	ID         uuid.UUID `json:"id" db:"id"`
	QuestionID uuid.UUID `json:"question_id" db:"question_id"`
	Text       string    `json:"text" db:"text"`
	IsCorrect  bool      `json:"is_correct" db:"is_correct"`
	Order      int       `json:"order" db:"option_order"`
}
