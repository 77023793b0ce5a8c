package generation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vocab(n int, word, translation, example, exampleTranslation string) domain.Vocabulary {
	id := uuid.New()
	v := domain.Vocabulary{
		ID:              id,
		WordNumber:      n,
		Word:            word,
		ExampleSentence: example,
	}
	if translation != "" {
		v.Translations = []domain.VocabularyTranslation{{
			VocabularyID:       id,
			Language:           "uz",
			Translation:        translation,
			ExampleTranslation: exampleTranslation,
		}}
	}
	return v
}

func unitVocabulary() []domain.Vocabulary {
	return []domain.Vocabulary{
		vocab(1, "hello", "salom", "Hello! How are you?", "Misol: Salom! Qalaysiz?"),
		vocab(2, "book", "kitob", "I read a book.", "Men kitob o'qiyman."),
		vocab(3, "apple", "olma", "The apple is red.", "Olma qizil."),
		vocab(4, "water", "suv", "", ""),
		vocab(5, "house", "uy", "This is my house.", "Bu mening uyim."),
	}
}

func TestBuild_ProducesThreeTasksPerEntry(t *testing.T) {
	t.Parallel()

	words := unitVocabulary()
	lessonID := uuid.New()
	res := NewEngine(NewSeededSource(1)).Build(Input{
		LessonID: lessonID,
		Targets:  words,
		Pool:     words,
		Language: "uz",
	})

	require.Len(t, res.Questions, 3*len(words))
	assert.Empty(t, res.Issues)

	counts := map[domain.QuestionType]int{}
	for i, q := range res.Questions {
		assert.Equal(t, i+1, q.Order, "orders are 1-based and dense")
		assert.Equal(t, lessonID, q.LessonID)
		require.NoError(t, q.Validate())
		counts[q.QuestionType]++
	}

	assert.Equal(t, 4, counts[domain.QuestionTypeSentenceTranslate])
	assert.Equal(t, 1, counts[domain.QuestionTypeWordTranslate])
	assert.Equal(t, 5, counts[domain.QuestionTypeFillBlank])
	assert.Equal(t, 5, counts[domain.QuestionTypeListenType])
}

func TestBuild_TranslateQuestionsHaveFourOptionsOneCorrect(t *testing.T) {
	t.Parallel()

	words := unitVocabulary()
	for seed := uint64(0); seed < 20; seed++ {
		res := NewEngine(NewSeededSource(seed)).Build(Input{
			LessonID: uuid.New(),
			Targets:  words,
			Pool:     words,
			Language: "uz",
		})

		for _, q := range res.Questions {
			if !q.QuestionType.HasOptions() {
				assert.Empty(t, q.Options)
				continue
			}
			require.Len(t, q.Options, 4)

			correct := 0
			texts := map[string]bool{}
			for i, opt := range q.Options {
				assert.Equal(t, i+1, opt.Order)
				texts[opt.Text] = true
				if opt.IsCorrect {
					correct++
					assert.Equal(t, q.CorrectAnswer, opt.Text)
				}
			}
			assert.Equal(t, 1, correct, "seed %d question %d", seed, q.Order)
			assert.Len(t, texts, 4, "options are unique")
		}
	}
}

func TestBuild_SentenceTranslateScenario(t *testing.T) {
	t.Parallel()

	words := unitVocabulary()
	res := NewEngine(NewSeededSource(42)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words[:1],
		Pool:     words,
		Language: "uz",
	})

	var found bool
	for _, q := range res.Questions {
		if q.QuestionType != domain.QuestionTypeSentenceTranslate {
			continue
		}
		found = true
		assert.Equal(t, "Hello! How are you?", q.Prompt)
		assert.Equal(t, "Salom! Qalaysiz?", q.CorrectAnswer)
		assert.Equal(t, "Correct translation: Salom! Qalaysiz?", q.Explanation)

		for _, opt := range q.Options {
			assert.NotContains(t, opt.Text, "Misol")
			if !opt.IsCorrect {
				assert.Contains(t, []string{"Men kitob o'qiyman.", "Olma qizil.", "Bu mening uyim."}, opt.Text)
			}
		}
	}
	assert.True(t, found)
}

func TestBuild_FillBlankAndListen(t *testing.T) {
	t.Parallel()

	words := unitVocabulary()
	res := NewEngine(NewSeededSource(7)).Build(Input{
		LessonID: uuid.New(),
		Targets:  []domain.Vocabulary{words[0], words[3]},
		Pool:     words,
		Language: "uz",
	})

	prompts := map[string]bool{}
	for _, q := range res.Questions {
		switch q.QuestionType {
		case domain.QuestionTypeFillBlank:
			prompts[q.Prompt] = true
		case domain.QuestionTypeListenType:
			assert.Empty(t, q.Prompt)
			assert.Contains(t, []string{"hello", "water"}, q.CorrectAnswer)
			assert.Equal(t, fmt.Sprintf("vocabulary/audio/%s.mp3", q.CorrectAnswer), q.Audio)
		}
	}
	assert.True(t, prompts["_____! How are you?"])
	assert.True(t, prompts["I like _____."])
}

func TestBuild_PadsWhenTooFewCandidates(t *testing.T) {
	t.Parallel()

	words := []domain.Vocabulary{
		vocab(1, "cat", "mushuk", "", ""),
		vocab(2, "dog", "it", "", ""),
	}
	res := NewEngine(NewSeededSource(3)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words[:1],
		Pool:     words,
		Language: "uz",
	})

	var translate *domain.Question
	for i := range res.Questions {
		if res.Questions[i].QuestionType == domain.QuestionTypeWordTranslate {
			translate = &res.Questions[i]
		}
	}
	require.NotNil(t, translate)
	require.Len(t, translate.Options, 4)

	var placeholders, correct int
	for _, opt := range translate.Options {
		if opt.Text == PlaceholderWord {
			placeholders++
		}
		if opt.IsCorrect {
			correct++
			assert.Equal(t, "Mushuk", opt.Text)
		}
	}
	assert.Equal(t, 2, placeholders)
	assert.Equal(t, 1, correct)

	require.Len(t, res.Issues, 1)
	assert.True(t, errors.Is(res.Issues[0], domain.ErrDataIncomplete))
}

func TestBuild_SkipsEntriesWithoutTranslation(t *testing.T) {
	t.Parallel()

	words := append(unitVocabulary(), vocab(6, "tree", "", "", ""))
	res := NewEngine(NewSeededSource(9)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words,
		Pool:     words,
		Language: "uz",
	})

	assert.Len(t, res.Questions, 15)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "tree", res.Issues[0].Word)
	assert.Equal(t, reasonNoTranslation, res.Issues[0].Reason)
}

func TestBuild_DistractorsExcludeDuplicatesOfAnswer(t *testing.T) {
	t.Parallel()

	words := []domain.Vocabulary{
		vocab(1, "hi", "salom", "", ""),
		vocab(2, "hello", "Salom", "", ""),
		vocab(3, "greetings", "misol: salom", "", ""),
		vocab(4, "bread", "non", "", ""),
	}
	res := NewEngine(NewSeededSource(11)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words[:1],
		Pool:     words,
		Language: "uz",
	})

	for _, q := range res.Questions {
		if q.QuestionType != domain.QuestionTypeWordTranslate {
			continue
		}
		var texts []string
		for _, opt := range q.Options {
			texts = append(texts, opt.Text)
		}
		assert.ElementsMatch(t, []string{"Salom", "Non", PlaceholderWord, PlaceholderWord}, texts)
	}
}

func TestBuild_SameSeedSameOutput(t *testing.T) {
	t.Parallel()

	words := unitVocabulary()
	lessonID := uuid.New()
	in := Input{LessonID: lessonID, Targets: words, Pool: words, Language: "uz"}

	a := NewEngine(NewSeededSource(5)).Build(in)
	b := NewEngine(NewSeededSource(5)).Build(in)
	assert.Equal(t, a.Questions, b.Questions)
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	res := NewEngine(nil).Build(Input{LessonID: uuid.New()})
	assert.Empty(t, res.Questions)
	assert.Empty(t, res.Issues)
}

func TestBuild_SkipsTranslationsThatCleanToNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		translation string
	}{
		{"label only", "Misol:"},
		{"english label only", "  example:  "},
		{"whitespace", "   "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			words := append(unitVocabulary(), vocab(6, "perro", tc.translation, "", ""))
			res := NewEngine(NewSeededSource(13)).Build(Input{
				LessonID: uuid.New(),
				Targets:  words,
				Pool:     words,
				Language: "uz",
			})

			assert.Len(t, res.Questions, 15)
			for _, q := range res.Questions {
				require.NoError(t, q.Validate())
			}
			require.Len(t, res.Issues, 1)
			assert.Equal(t, "perro", res.Issues[0].Word)
			assert.Equal(t, reasonNoTranslation, res.Issues[0].Reason)
		})
	}
}

func TestBuild_LabelOnlySentenceTranslationFallsBackToWord(t *testing.T) {
	t.Parallel()

	words := []domain.Vocabulary{
		vocab(1, "cat", "mushuk", "The cat sleeps.", "Misol:"),
		vocab(2, "dog", "it", "", ""),
		vocab(3, "bird", "qush", "", ""),
		vocab(4, "fish", "baliq", "", ""),
	}
	res := NewEngine(NewSeededSource(17)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words[:1],
		Pool:     words,
		Language: "uz",
	})

	require.Len(t, res.Questions, 3)
	assert.Empty(t, res.Issues)

	var translate *domain.Question
	for i := range res.Questions {
		q := &res.Questions[i]
		require.NoError(t, q.Validate())
		assert.NotEqual(t, domain.QuestionTypeSentenceTranslate, q.QuestionType)
		if q.QuestionType == domain.QuestionTypeWordTranslate {
			translate = q
		}
	}
	require.NotNil(t, translate)
	assert.Equal(t, "cat", translate.Prompt)
	assert.Equal(t, "Mushuk", translate.CorrectAnswer)
}

func TestBuild_SkipsEntriesWithoutWord(t *testing.T) {
	t.Parallel()

	words := append(unitVocabulary(), vocab(6, "  ", "daraxt", "", ""))
	res := NewEngine(NewSeededSource(19)).Build(Input{
		LessonID: uuid.New(),
		Targets:  words,
		Pool:     words,
		Language: "uz",
	})

	assert.Len(t, res.Questions, 15)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, reasonNoWord, res.Issues[0].Reason)
}
