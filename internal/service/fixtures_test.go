package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func (e *recordingEmitter) ofType(eventType string) []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*events.Event
	for _, ev := range e.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// course is a seeded language pair with units per level.
type course struct {
	pair    domain.LanguagePair
	units   map[domain.CEFRLevel][]domain.Unit
	lessons map[uuid.UUID][]domain.Lesson // by unit
	vocab   map[uuid.UUID][]domain.Vocabulary
}

func (c *course) lessonsAt(level domain.CEFRLevel) []domain.Lesson {
	var out []domain.Lesson
	for _, u := range c.units[level] {
		out = append(out, c.lessons[u.ID]...)
	}
	return out
}

// seedCourse adds a pair with unitsPerLevel units of lessonsPerUnit lessons
// at every level given. The first lesson of each unit is a vocabulary lesson
// and each unit gets four words translated into the pair's from-language.
func seedCourse(t *testing.T, db *mocks.MemoryDB, unitsPerLevel, lessonsPerUnit int, levels ...domain.CEFRLevel) *course {
	t.Helper()
	c := &course{
		pair: domain.LanguagePair{
			ID:         uuid.New(),
			FromLang:   "en",
			TargetLang: "es",
			IsActive:   true,
			CreatedAt:  time.Now().UTC(),
		},
		units:   make(map[domain.CEFRLevel][]domain.Unit),
		lessons: make(map[uuid.UUID][]domain.Lesson),
		vocab:   make(map[uuid.UUID][]domain.Vocabulary),
	}
	db.AddLanguagePair(c.pair)

	number := 0
	words := [][4]string{
		{"hola", "hello", "Hola, amigo.", "Hello, friend."},
		{"libro", "book", "Leo un libro.", "I read a book."},
		{"agua", "water", "", ""},
		{"casa", "house", "Mi casa es azul.", "My house is blue."},
	}
	for _, level := range levels {
		for u := 0; u < unitsPerLevel; u++ {
			number++
			unit := domain.Unit{
				ID:         uuid.New(),
				LangPairID: c.pair.ID,
				BookTitle:  "Book " + string(level),
				CEFRLevel:  level,
				Number:     number,
				Title:      fmt.Sprintf("Unit %d", number),
			}
			require.NoError(t, unit.Validate())
			db.AddUnit(unit)
			c.units[level] = append(c.units[level], unit)

			for o := 1; o <= lessonsPerUnit; o++ {
				lessonType := domain.LessonTypePractice
				if o == 1 {
					lessonType = domain.LessonTypeVocabulary
				}
				lesson := domain.Lesson{
					ID:         uuid.New(),
					UnitID:     unit.ID,
					Order:      o,
					Title:      fmt.Sprintf("Lesson %d.%d", number, o),
					LessonType: lessonType,
					TotalStars: 3,
					XPReward:   10,
				}
				require.NoError(t, lesson.Validate())
				db.AddLesson(lesson)
				c.lessons[unit.ID] = append(c.lessons[unit.ID], lesson)
			}

			for i, w := range words {
				id := uuid.New()
				v := domain.Vocabulary{
					ID:              id,
					UnitID:          unit.ID,
					WordNumber:      i + 1,
					Word:            w[0],
					ExampleSentence: w[2],
					Translations: []domain.VocabularyTranslation{{
						VocabularyID:       id,
						Language:           "en",
						Translation:        w[1],
						ExampleTranslation: w[3],
					}},
				}
				db.AddVocabulary(v)
				c.vocab[unit.ID] = append(c.vocab[unit.ID], v)
			}
		}
	}
	return c
}

// enroll stores an enrollment directly, bypassing the service.
func enroll(t *testing.T, db *mocks.MemoryDB, userID uuid.UUID, c *course, level domain.CEFRLevel) *domain.UserLanguagePair {
	t.Helper()
	ulp, err := domain.NewUserLanguagePair(userID, c.pair.ID, level)
	require.NoError(t, err)
	db.AddEnrollment(ulp)
	return ulp
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type progressionHarness struct {
	db      *mocks.MemoryDB
	emitter *recordingEmitter
	clock   *clock
	svc     ProgressionService
}

func newProgressionHarness(t *testing.T) *progressionHarness {
	t.Helper()
	db := mocks.NewMemoryDB()
	emitter := &recordingEmitter{}
	clk := newClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))

	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	svc, err := NewProgressionService(
		db.Stores(),
		db,
		scheduler,
		emitter,
		config.ProgressionConfig{MaxRetries: 3, RetryBaseDelay: time.Millisecond},
		nil,
		WithClock(clk.Now),
	)
	require.NoError(t, err)

	return &progressionHarness{db: db, emitter: emitter, clock: clk, svc: svc}
}

func (h *progressionHarness) enrollment(t *testing.T, id uuid.UUID) domain.UserLanguagePairState {
	t.Helper()
	ulp, err := h.db.Stores().Enrollments.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ulp.State()
}

func newTestGenerationService(t *testing.T, db *mocks.MemoryDB, locker *mocks.MockLocker, emitter events.EventEmitter) GenerationService {
	t.Helper()
	svc, err := NewGenerationService(
		db.Stores(),
		db,
		locker,
		generation.NewEngine(generation.NewSeededSource(7)),
		emitter,
		config.GenerationConfig{},
		nil,
	)
	require.NoError(t, err)
	return svc
}
