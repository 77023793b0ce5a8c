package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/stretchr/testify/require"
)

// CourseSpec sizes a seeded course.
type CourseSpec struct {
	Level          domain.CEFRLevel
	Units          int
	LessonsPerUnit int
	WordsPerUnit   int
}

// Course is the content created by SeedCourse.
type Course struct {
	Pair       domain.LanguagePair
	Units      []domain.Unit
	Lessons    [][]domain.Lesson // per unit, ordered
	Vocabulary [][]domain.Vocabulary
}

// SeedCourse inserts an active language pair with units, lessons and
// vocabulary translated into English. Zero fields of spec get small defaults.
func SeedCourse(t *testing.T, db store.DBTX, spec CourseSpec) Course {
	t.Helper()
	ctx := context.Background()

	if spec.Level == "" {
		spec.Level = domain.CEFRLevelA1
	}
	if spec.Units == 0 {
		spec.Units = 1
	}
	if spec.LessonsPerUnit == 0 {
		spec.LessonsPerUnit = 3
	}
	if spec.WordsPerUnit == 0 {
		spec.WordsPerUnit = 5
	}

	// Random language codes keep parallel tests off each other's unique keys.
	suffix := uuid.NewString()[:8]
	pair := domain.LanguagePair{
		ID:         uuid.New(),
		FromLang:   "en-" + suffix,
		TargetLang: "uz-" + suffix,
		IsActive:   true,
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO language_pairs (id, from_lang, target_lang, is_active) VALUES ($1, $2, $3, $4)`,
		pair.ID, pair.FromLang, pair.TargetLang, pair.IsActive)
	require.NoError(t, err, "seed language pair")

	course := Course{Pair: pair}
	for u := 1; u <= spec.Units; u++ {
		unit := domain.Unit{
			ID:         uuid.New(),
			LangPairID: pair.ID,
			BookTitle:  "Book " + string(spec.Level),
			CEFRLevel:  spec.Level,
			Number:     u,
			Title:      fmt.Sprintf("Unit %d", u),
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO units (id, lang_pair_id, book_title, cefr_level, number, title) VALUES ($1, $2, $3, $4, $5, $6)`,
			unit.ID, unit.LangPairID, unit.BookTitle, unit.CEFRLevel, unit.Number, unit.Title)
		require.NoError(t, err, "seed unit")
		course.Units = append(course.Units, unit)

		var lessons []domain.Lesson
		for o := 1; o <= spec.LessonsPerUnit; o++ {
			lesson := domain.Lesson{
				ID:         uuid.New(),
				UnitID:     unit.ID,
				Order:      o,
				Title:      fmt.Sprintf("Lesson %d.%d", u, o),
				LessonType: domain.LessonTypeVocabulary,
				TotalStars: 3,
				XPReward:   10,
			}
			_, err := db.ExecContext(ctx, `
				INSERT INTO lessons (id, unit_id, lesson_order, title, lesson_type, total_stars, xp_reward)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				lesson.ID, lesson.UnitID, lesson.Order, lesson.Title, lesson.LessonType,
				lesson.TotalStars, lesson.XPReward)
			require.NoError(t, err, "seed lesson")
			lessons = append(lessons, lesson)
		}
		course.Lessons = append(course.Lessons, lessons)

		var vocab []domain.Vocabulary
		for w := 1; w <= spec.WordsPerUnit; w++ {
			v := domain.Vocabulary{
				ID:              uuid.New(),
				UnitID:          unit.ID,
				WordNumber:      w,
				Word:            fmt.Sprintf("soz%d", w),
				ExampleSentence: fmt.Sprintf("Bu soz%d misol.", w),
			}
			_, err := db.ExecContext(ctx, `
				INSERT INTO vocabulary (id, unit_id, word_number, word, example_sentence)
				VALUES ($1, $2, $3, $4, $5)`,
				v.ID, v.UnitID, v.WordNumber, v.Word, v.ExampleSentence)
			require.NoError(t, err, "seed vocabulary")

			tr := domain.VocabularyTranslation{
				VocabularyID:       v.ID,
				Language:           pair.FromLang,
				Translation:        fmt.Sprintf("word%d", w),
				ExampleTranslation: fmt.Sprintf("This is word%d example.", w),
			}
			_, err = db.ExecContext(ctx, `
				INSERT INTO vocabulary_translations (vocabulary_id, language, translation, example_translation)
				VALUES ($1, $2, $3, $4)`,
				tr.VocabularyID, tr.Language, tr.Translation, tr.ExampleTranslation)
			require.NoError(t, err, "seed translation")
			v.Translations = []domain.VocabularyTranslation{tr}
			vocab = append(vocab, v)
		}
		course.Vocabulary = append(course.Vocabulary, vocab)
	}
	return course
}
