package generation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// DistractorCount is the number of wrong options on a translate question.
const DistractorCount = 3

// Input is the vocabulary a lesson is generated from.
type Input struct {
	LessonID uuid.UUID

	// Targets are the entries the lesson drills.
	Targets []domain.Vocabulary

	// Pool is every entry of the unit; distractors are drawn from it.
	Pool []domain.Vocabulary

	// Language selects the translation answers are written in. Empty picks
	// the first translation of each entry.
	Language string
}

// Result is the outcome of one generation run.
type Result struct {
	// Questions are ordered by their 1-based position and carry their options.
	Questions []domain.Question

	// Issues lists entries that were skipped or only partially served.
	Issues []Issue
}

// Engine builds lesson questions from vocabulary.
type Engine struct {
	rnd RandomSource
}

// NewEngine creates an Engine. A nil source falls back to a time seeded one.
func NewEngine(rnd RandomSource) *Engine {
	if rnd == nil {
		rnd = NewTimeSeededSource()
	}
	return &Engine{rnd: rnd}
}

// Build produces the lesson's questions. Entries without a translation are
// skipped and reported. The tasks of all entries are shuffled together before
// positions are assigned.
func (e *Engine) Build(in Input) Result {
	var (
		tasks  []domain.Task
		issues []Issue
	)

	for _, vocab := range in.Targets {
		if strings.TrimSpace(vocab.Word) == "" {
			issues = append(issues, Issue{
				VocabularyID: vocab.ID,
				Word:         vocab.Word,
				Reason:       reasonNoWord,
			})
			continue
		}
		translation, ok := vocab.Translation(in.Language)
		if !ok || CleanAnswer(translation.Translation) == "" {
			issues = append(issues, Issue{
				VocabularyID: vocab.ID,
				Word:         vocab.Word,
				Reason:       reasonNoTranslation,
			})
			continue
		}

		translate, padded := e.translateTask(vocab, translation, in)
		if padded {
			issues = append(issues, Issue{
				VocabularyID: vocab.ID,
				Word:         vocab.Word,
				Reason:       reasonInsufficientOptions,
			})
		}

		tasks = append(tasks,
			translate,
			domain.FillBlankTask{
				VocabularyID: vocab.ID,
				Sentence:     BlankOut(vocab.ExampleSentence, vocab.Word),
				Word:         vocab.Word,
			},
			domain.ListenTypeTask{
				VocabularyID: vocab.ID,
				Word:         vocab.Word,
				Audio:        AudioPath(vocab.Audio, vocab.Word),
			},
		)
	}

	e.rnd.Shuffle(len(tasks), func(i, j int) { tasks[i], tasks[j] = tasks[j], tasks[i] })

	questions := make([]domain.Question, 0, len(tasks))
	for i, task := range tasks {
		key := domain.QuestionKey{LessonID: in.LessonID, Order: i + 1}
		q := task.Question(key)
		q.Options = e.options(task.Choices())
		questions = append(questions, q)
	}

	return Result{Questions: questions, Issues: issues}
}

// translateTask picks sentence or word translation for an entry and samples
// its distractors. padded reports whether placeholders had to be used.
func (e *Engine) translateTask(
	vocab domain.Vocabulary,
	translation domain.VocabularyTranslation,
	in Input,
) (domain.Task, bool) {
	// A sentence translation that cleans down to nothing falls back to the word.
	if strings.TrimSpace(vocab.ExampleSentence) != "" {
		if answer := CleanAnswer(translation.ExampleTranslation); answer != "" {
			distractors, padded := e.distractors(vocab.ID, answer, in, sentenceField, PlaceholderSentence)
			return domain.SentenceTranslateTask{
				VocabularyID: vocab.ID,
				Sentence:     vocab.ExampleSentence,
				Answer:       answer,
				Distractors:  distractors,
			}, padded
		}
	}

	answer := CleanAnswer(translation.Translation)
	distractors, padded := e.distractors(vocab.ID, answer, in, wordField, PlaceholderWord)
	return domain.WordTranslateTask{
		VocabularyID: vocab.ID,
		Word:         vocab.Word,
		Answer:       answer,
		Distractors:  distractors,
	}, padded
}

type field func(domain.VocabularyTranslation) string

func sentenceField(t domain.VocabularyTranslation) string { return t.ExampleTranslation }
func wordField(t domain.VocabularyTranslation) string { return t.Translation }

// distractors draws up to DistractorCount cleaned, unique wrong answers from
// the other entries of the pool in random order, padding with placeholder.
func (e *Engine) distractors(
	self uuid.UUID,
	answer string,
	in Input,
	pick field,
	placeholder string,
) ([]string, bool) {
	candidates := make([]domain.Vocabulary, 0, len(in.Pool))
	for _, v := range in.Pool {
		if v.ID != self {
			candidates = append(candidates, v)
		}
	}
	e.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	seen := map[string]bool{domain.NormalizeAnswer(answer): true}
	wrong := make([]string, 0, DistractorCount)

	for _, candidate := range candidates {
		if len(wrong) >= DistractorCount {
			break
		}
		translation, ok := candidate.Translation(in.Language)
		if !ok || pick(translation) == "" {
			continue
		}
		text := CleanAnswer(pick(translation))
		key := domain.NormalizeAnswer(text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		wrong = append(wrong, text)
	}

	padded := len(wrong) < DistractorCount
	for len(wrong) < DistractorCount {
		wrong = append(wrong, placeholder)
	}
	return wrong, padded
}

// options turns choices (correct answer first) into shuffled options with
// 1-based order and exactly one correct entry.
func (e *Engine) options(choices []string) []domain.QuestionOption {
	if len(choices) == 0 {
		return nil
	}

	idx := make([]int, len(choices))
	for i := range idx {
		idx[i] = i
	}
	e.rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	opts := make([]domain.QuestionOption, len(idx))
	for pos, i := range idx {
		opts[pos] = domain.QuestionOption{
			Text:      choices[i],
			IsCorrect: i == 0,
			Order:     pos + 1,
		}
	}
	return opts
}
