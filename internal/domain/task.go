package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Task is a generated quiz item before it has been given a position in its
// lesson. The set of implementations is closed; each carries only the data
// its kind needs.
type Task interface {
	Type() QuestionType
	Source() uuid.UUID
	// Choices returns the correct answer followed by the wrong answers.
	// Free-text tasks return nil.
	Choices() []string
	// Question renders the task at key without options.
	Question(key QuestionKey) Question
}

// WordTranslateTask asks for the translation of a single word.
type WordTranslateTask struct {
	VocabularyID uuid.UUID
	Word         string
	Answer       string
	Distractors  []string
}

// SentenceTranslateTask asks for the translation of an example sentence.
type SentenceTranslateTask struct {
	VocabularyID uuid.UUID
	Sentence     string
	Answer       string
	Distractors  []string
}

// FillBlankTask asks for the word missing from a sentence.
type FillBlankTask struct {
	VocabularyID uuid.UUID
	Sentence     string
	Word         string
}

// ListenTypeTask asks the learner to type the word they hear.
type ListenTypeTask struct {
	VocabularyID uuid.UUID
	Word         string
	Audio        string
}

var (
	_ Task = WordTranslateTask{}
	_ Task = SentenceTranslateTask{}
	_ Task = FillBlankTask{}
	_ Task = ListenTypeTask{}
)

func (t WordTranslateTask) Type() QuestionType { return QuestionTypeWordTranslate }
func (t WordTranslateTask) Source() uuid.UUID { return t.VocabularyID }
func (t WordTranslateTask) Choices() []string { return append([]string{t.Answer}, t.Distractors...) }

func (t WordTranslateTask) Question(key QuestionKey) Question {
	return newTaskQuestion(key, t, t.Word, t.Answer, translateExplanation(t.Answer), "")
}

func (t SentenceTranslateTask) Type() QuestionType { return QuestionTypeSentenceTranslate }
func (t SentenceTranslateTask) Source() uuid.UUID { return t.VocabularyID }
func (t SentenceTranslateTask) Choices() []string {
	return append([]string{t.Answer}, t.Distractors...)
}

func (t SentenceTranslateTask) Question(key QuestionKey) Question {
	return newTaskQuestion(key, t, t.Sentence, t.Answer, translateExplanation(t.Answer), "")
}

func (t FillBlankTask) Type() QuestionType { return QuestionTypeFillBlank }
func (t FillBlankTask) Source() uuid.UUID { return t.VocabularyID }
func (t FillBlankTask) Choices() []string { return nil }

func (t FillBlankTask) Question(key QuestionKey) Question {
	return newTaskQuestion(
		key,
		t,
		t.Sentence,
		strings.ToLower(t.Word),
		fmt.Sprintf("The missing word is '%s'", t.Word),
		"",
	)
}

func (t ListenTypeTask) Type() QuestionType { return QuestionTypeListenType }
func (t ListenTypeTask) Source() uuid.UUID { return t.VocabularyID }
func (t ListenTypeTask) Choices() []string { return nil }

func (t ListenTypeTask) Question(key QuestionKey) Question {
	return newTaskQuestion(
		key,
		t,
		"",
		strings.ToLower(t.Word),
		fmt.Sprintf("You heard: '%s'", t.Word),
		t.Audio,
	)
}

func translateExplanation(answer string) string {
	return "Correct translation: " + answer
}

func newTaskQuestion(
	key QuestionKey,
	t Task,
	prompt, answer, explanation, audio string,
) Question {
	q := Question{
		LessonID:      key.LessonID,
		Order:         key.Order,
		QuestionType:  t.Type(),
		Prompt:        prompt,
		CorrectAnswer: answer,
		Explanation:   explanation,
		Audio:         audio,
	}
	if src := t.Source(); src != uuid.Nil {
		q.VocabularyID = &src
	}
	return q
}
