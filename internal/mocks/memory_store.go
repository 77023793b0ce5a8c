package mocks

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

type progressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

type completionKey struct {
	userID       uuid.UUID
	lessonID     uuid.UUID
	submissionID string
}

// memoryData is everything a MemoryDB holds. It is copied wholesale for
// transaction rollback.
type memoryData struct {
	pairs       map[uuid.UUID]domain.LanguagePair
	units       map[uuid.UUID]domain.Unit
	lessons     map[uuid.UUID]domain.Lesson
	vocabulary  map[uuid.UUID][]domain.Vocabulary
	enrollments map[uuid.UUID]domain.UserLanguagePairState
	progress    map[progressKey]domain.UserLessonProgress
	questions   map[uuid.UUID]domain.Question
	attempts    []domain.QuestionAttempt
	completions map[completionKey]domain.LessonCompletion
}

func newMemoryData() memoryData {
	return memoryData{
		pairs:       make(map[uuid.UUID]domain.LanguagePair),
		units:       make(map[uuid.UUID]domain.Unit),
		lessons:     make(map[uuid.UUID]domain.Lesson),
		vocabulary:  make(map[uuid.UUID][]domain.Vocabulary),
		enrollments: make(map[uuid.UUID]domain.UserLanguagePairState),
		progress:    make(map[progressKey]domain.UserLessonProgress),
		questions:   make(map[uuid.UUID]domain.Question),
		completions: make(map[completionKey]domain.LessonCompletion),
	}
}

// clone copies the maps. Values hold slices that the store never mutates
// in place, so a shallow copy per map is enough.
func (d memoryData) clone() memoryData {
	return memoryData{
		pairs:       maps.Clone(d.pairs),
		units:       maps.Clone(d.units),
		lessons:     maps.Clone(d.lessons),
		vocabulary:  maps.Clone(d.vocabulary),
		enrollments: maps.Clone(d.enrollments),
		progress:    maps.Clone(d.progress),
		questions:   maps.Clone(d.questions),
		attempts:    slices.Clone(d.attempts),
		completions: maps.Clone(d.completions),
	}
}

// MemoryDB is an in-memory implementation of every store interface plus
// store.Transactor. Transactions are serialized and roll back on error,
// which gives the same isolation the Postgres row locks provide.
type MemoryDB struct {
	txMu sync.Mutex // held for the whole of WithinTx
	mu   sync.Mutex // guards data and failures
	data memoryData

	failures map[string][]error
	calls    map[string]int
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		data:     newMemoryData(),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// FailNext makes the next n calls of op (for example "Progress.Update")
// return err before touching any data.
func (m *MemoryDB) FailNext(op string, err error, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		m.failures[op] = append(m.failures[op], err)
	}
}

// Calls reports how many times op was invoked.
func (m *MemoryDB) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// enter records the call and returns an injected failure. Callers hold mu.
func (m *MemoryDB) enter(op string) error {
	m.calls[op]++
	if errs := m.failures[op]; len(errs) > 0 {
		m.failures[op] = errs[1:]
		return errs[0]
	}
	return nil
}

// Stores returns every store bound to this MemoryDB.
func (m *MemoryDB) Stores() store.Stores {
	return store.Stores{
		Catalog:     (*memoryCatalog)(m),
		Enrollments: (*memoryEnrollments)(m),
		Progress:    (*memoryProgress)(m),
		Questions:   (*memoryQuestions)(m),
		Attempts:    (*memoryAttempts)(m),
		Completions: (*memoryCompletions)(m),
	}
}

// WithinTx implements store.Transactor.
func (m *MemoryDB) WithinTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.data.clone()
	m.mu.Unlock()

	if err := fn(ctx, m.Stores()); err != nil {
		m.mu.Lock()
		m.data = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

var _ store.Transactor = (*MemoryDB)(nil)

// Seeding helpers

// AddLanguagePair stores a language pair.
func (m *MemoryDB) AddLanguagePair(p domain.LanguagePair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.pairs[p.ID] = p
}

// AddUnit stores a unit.
func (m *MemoryDB) AddUnit(u domain.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.units[u.ID] = u
}

// AddLesson stores a lesson.
func (m *MemoryDB) AddLesson(l domain.Lesson) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.lessons[l.ID] = l
}

// AddVocabulary appends vocabulary entries to their units.
func (m *MemoryDB) AddVocabulary(entries ...domain.Vocabulary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range entries {
		m.data.vocabulary[v.UnitID] = append(slices.Clone(m.data.vocabulary[v.UnitID]), v)
	}
}

// AddEnrollment stores an enrollment as-is.
func (m *MemoryDB) AddEnrollment(ulp *domain.UserLanguagePair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.enrollments[ulp.ID()] = ulp.State()
}

// Progress returns a copy of the stored record, if any.
func (m *MemoryDB) Progress(userID, lessonID uuid.UUID) (domain.UserLessonProgress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data.progress[progressKey{userID, lessonID}]
	return p, ok
}

// ProgressCount counts every stored progress record.
func (m *MemoryDB) ProgressCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.progress)
}

// Attempts returns a copy of the answer log.
func (m *MemoryDB) Attempts() []domain.QuestionAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.data.attempts)
}

// QuestionCount counts the active questions of a lesson.
func (m *MemoryDB) QuestionCount(lessonID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.data.questions {
		if q.LessonID == lessonID && !q.Retired() {
			n++
		}
	}
	return n
}

// Catalog

type memoryCatalog MemoryDB

func (c *memoryCatalog) db() *MemoryDB { return (*MemoryDB)(c) }

func (c *memoryCatalog) ListLanguagePairs(_ context.Context, activeOnly bool) ([]domain.LanguagePair, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.ListLanguagePairs"); err != nil {
		return nil, err
	}
	out := []domain.LanguagePair{}
	for _, p := range m.data.pairs {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromLang != out[j].FromLang {
			return out[i].FromLang < out[j].FromLang
		}
		return out[i].TargetLang < out[j].TargetLang
	})
	return out, nil
}

func (c *memoryCatalog) GetLanguagePair(_ context.Context, id uuid.UUID) (*domain.LanguagePair, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.GetLanguagePair"); err != nil {
		return nil, err
	}
	p, ok := m.data.pairs[id]
	if !ok {
		return nil, store.ErrLanguagePairNotFound
	}
	return &p, nil
}

func (c *memoryCatalog) GetUnit(_ context.Context, id uuid.UUID) (*domain.Unit, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.GetUnit"); err != nil {
		return nil, err
	}
	u, ok := m.data.units[id]
	if !ok {
		return nil, store.ErrUnitNotFound
	}
	return &u, nil
}

func (c *memoryCatalog) GetLesson(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.GetLesson"); err != nil {
		return nil, err
	}
	l, ok := m.data.lessons[id]
	if !ok {
		return nil, store.ErrLessonNotFound
	}
	return &l, nil
}

// sortedLessons returns the unit's lessons by order. Callers hold mu.
func (m *MemoryDB) sortedLessons(unitID uuid.UUID) []domain.Lesson {
	var out []domain.Lesson
	for _, l := range m.data.lessons {
		if l.UnitID == unitID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// sortedUnits returns the pair's units at the level by number. An empty
// level matches every level. Callers hold mu.
func (m *MemoryDB) sortedUnits(langPairID uuid.UUID, level domain.CEFRLevel) []domain.Unit {
	var out []domain.Unit
	for _, u := range m.data.units {
		if u.LangPairID == langPairID && (level == "" || u.CEFRLevel == level) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (c *memoryCatalog) GetNextLesson(_ context.Context, unitID uuid.UUID, afterOrder int) (*domain.Lesson, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.GetNextLesson"); err != nil {
		return nil, err
	}
	for _, l := range m.sortedLessons(unitID) {
		if l.Order > afterOrder {
			return &l, nil
		}
	}
	return nil, store.ErrLessonNotFound
}

func (c *memoryCatalog) GetFirstLesson(
	_ context.Context,
	langPairID uuid.UUID,
	level domain.CEFRLevel,
) (*domain.Lesson, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.GetFirstLesson"); err != nil {
		return nil, err
	}
	for _, u := range m.sortedUnits(langPairID, level) {
		if ls := m.sortedLessons(u.ID); len(ls) > 0 {
			return &ls[0], nil
		}
	}
	return nil, store.ErrLessonNotFound
}

func (c *memoryCatalog) ListUnits(
	_ context.Context,
	langPairID uuid.UUID,
	level domain.CEFRLevel,
) ([]store.UnitWithLessons, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.ListUnits"); err != nil {
		return nil, err
	}
	out := []store.UnitWithLessons{}
	for _, u := range m.sortedUnits(langPairID, level) {
		ls := m.sortedLessons(u.ID)
		if ls == nil {
			ls = []domain.Lesson{}
		}
		out = append(out, store.UnitWithLessons{Unit: u, Lessons: ls})
	}
	return out, nil
}

func (c *memoryCatalog) CountLessons(_ context.Context, langPairID uuid.UUID, level domain.CEFRLevel) (int, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.CountLessons"); err != nil {
		return 0, err
	}
	n := 0
	for _, u := range m.sortedUnits(langPairID, level) {
		n += len(m.sortedLessons(u.ID))
	}
	return n, nil
}

func (c *memoryCatalog) ListLessons(_ context.Context) ([]domain.Lesson, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.ListLessons"); err != nil {
		return nil, err
	}
	units := slices.Collect(maps.Values(m.data.units))
	sort.Slice(units, func(i, j int) bool {
		if units[i].LangPairID != units[j].LangPairID {
			return units[i].LangPairID.String() < units[j].LangPairID.String()
		}
		return units[i].Number < units[j].Number
	})
	out := []domain.Lesson{}
	for _, u := range units {
		out = append(out, m.sortedLessons(u.ID)...)
	}
	return out, nil
}

func (c *memoryCatalog) ListVocabulary(_ context.Context, unitID uuid.UUID) ([]domain.Vocabulary, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Catalog.ListVocabulary"); err != nil {
		return nil, err
	}
	out := slices.Clone(m.data.vocabulary[unitID])
	sort.Slice(out, func(i, j int) bool { return out[i].WordNumber < out[j].WordNumber })
	if out == nil {
		out = []domain.Vocabulary{}
	}
	return out, nil
}

// Enrollments

type memoryEnrollments MemoryDB

func (e *memoryEnrollments) db() *MemoryDB { return (*MemoryDB)(e) }

func (e *memoryEnrollments) Create(_ context.Context, ulp *domain.UserLanguagePair) error {
	m := e.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Enrollments.Create"); err != nil {
		return err
	}
	for _, st := range m.data.enrollments {
		if st.UserID == ulp.UserID() && st.LangPairID == ulp.LangPairID() {
			return store.ErrAlreadyEnrolled
		}
	}
	if _, ok := m.data.pairs[ulp.LangPairID()]; !ok {
		return fmt.Errorf("%w: language pair %s", store.ErrInvalidReference, ulp.LangPairID())
	}
	m.data.enrollments[ulp.ID()] = ulp.State()
	return nil
}

func (e *memoryEnrollments) GetByID(_ context.Context, id uuid.UUID) (*domain.UserLanguagePair, error) {
	m := e.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Enrollments.GetByID"); err != nil {
		return nil, err
	}
	st, ok := m.data.enrollments[id]
	if !ok {
		return nil, store.ErrEnrollmentNotFound
	}
	return domain.RestoreUserLanguagePair(st)
}

func (e *memoryEnrollments) GetForUpdate(
	_ context.Context,
	userID, langPairID uuid.UUID,
) (*domain.UserLanguagePair, error) {
	m := e.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Enrollments.GetForUpdate"); err != nil {
		return nil, err
	}
	for _, st := range m.data.enrollments {
		if st.UserID == userID && st.LangPairID == langPairID {
			return domain.RestoreUserLanguagePair(st)
		}
	}
	return nil, store.ErrEnrollmentNotFound
}

func (e *memoryEnrollments) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.UserLanguagePair, error) {
	m := e.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Enrollments.ListByUser"); err != nil {
		return nil, err
	}
	var states []domain.UserLanguagePairState
	for _, st := range m.data.enrollments {
		if st.UserID == userID {
			states = append(states, st)
		}
	}
	sort.Slice(states, func(i, j int) bool { return states[i].CreatedAt.After(states[j].CreatedAt) })

	out := make([]*domain.UserLanguagePair, 0, len(states))
	for _, st := range states {
		ulp, err := domain.RestoreUserLanguagePair(st)
		if err != nil {
			return nil, err
		}
		out = append(out, ulp)
	}
	return out, nil
}

func (e *memoryEnrollments) Update(_ context.Context, ulp *domain.UserLanguagePair) error {
	m := e.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Enrollments.Update"); err != nil {
		return err
	}
	if _, ok := m.data.enrollments[ulp.ID()]; !ok {
		return store.ErrEnrollmentNotFound
	}
	m.data.enrollments[ulp.ID()] = ulp.State()
	return nil
}

// Progress

type memoryProgress MemoryDB

func (p *memoryProgress) db() *MemoryDB { return (*MemoryDB)(p) }

func (p *memoryProgress) GetForUpdate(
	_ context.Context,
	userID, lessonID uuid.UUID,
) (*domain.UserLessonProgress, error) {
	m := p.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Progress.GetForUpdate"); err != nil {
		return nil, err
	}
	rec, ok := m.data.progress[progressKey{userID, lessonID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return &rec, nil
}

func (p *memoryProgress) InsertIfAbsent(_ context.Context, rec *domain.UserLessonProgress) (bool, error) {
	m := p.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Progress.InsertIfAbsent"); err != nil {
		return false, err
	}
	key := progressKey{rec.UserID, rec.LessonID}
	if _, ok := m.data.progress[key]; ok {
		return false, nil
	}
	m.data.progress[key] = *rec
	return true, nil
}

func (p *memoryProgress) Update(_ context.Context, rec *domain.UserLessonProgress) error {
	m := p.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Progress.Update"); err != nil {
		return err
	}
	key := progressKey{rec.UserID, rec.LessonID}
	existing, ok := m.data.progress[key]
	if !ok || existing.ID != rec.ID {
		return store.ErrProgressNotFound
	}
	m.data.progress[key] = *rec
	return nil
}

func (p *memoryProgress) ListForLessons(
	_ context.Context,
	userID uuid.UUID,
	lessonIDs []uuid.UUID,
) ([]domain.UserLessonProgress, error) {
	m := p.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Progress.ListForLessons"); err != nil {
		return nil, err
	}
	out := []domain.UserLessonProgress{}
	for _, id := range lessonIDs {
		if rec, ok := m.data.progress[progressKey{userID, id}]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *memoryProgress) CountCompleted(
	_ context.Context,
	userID, langPairID uuid.UUID,
	level domain.CEFRLevel,
) (int, error) {
	m := p.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Progress.CountCompleted"); err != nil {
		return 0, err
	}
	n := 0
	for _, u := range m.sortedUnits(langPairID, level) {
		for _, l := range m.sortedLessons(u.ID) {
			if rec, ok := m.data.progress[progressKey{userID, l.ID}]; ok && rec.Status == domain.LessonStatusCompleted {
				n++
			}
		}
	}
	return n, nil
}

// Completions

type memoryCompletions MemoryDB

func (c *memoryCompletions) db() *MemoryDB { return (*MemoryDB)(c) }

func (c *memoryCompletions) Get(
	_ context.Context,
	userID, lessonID uuid.UUID,
	submissionID string,
) (*domain.LessonCompletion, error) {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Completions.Get"); err != nil {
		return nil, err
	}
	rec, ok := m.data.completions[completionKey{userID, lessonID, submissionID}]
	if !ok {
		return nil, store.ErrCompletionNotFound
	}
	return &rec, nil
}

func (c *memoryCompletions) Save(_ context.Context, rec *domain.LessonCompletion) error {
	m := c.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Completions.Save"); err != nil {
		return err
	}
	key := completionKey{rec.UserID, rec.LessonID, rec.SubmissionID}
	if _, ok := m.data.completions[key]; ok {
		return store.ErrDuplicate
	}
	m.data.completions[key] = *rec
	return nil
}

// Questions

type memoryQuestions MemoryDB

func (q *memoryQuestions) db() *MemoryDB { return (*MemoryDB)(q) }

func (q *memoryQuestions) Upsert(_ context.Context, question *domain.Question) (uuid.UUID, error) {
	m := q.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Questions.Upsert"); err != nil {
		return uuid.Nil, err
	}
	if err := question.Validate(); err != nil {
		return uuid.Nil, err
	}
	if _, ok := m.data.lessons[question.LessonID]; !ok {
		return uuid.Nil, fmt.Errorf("%w: lesson %s", store.ErrInvalidReference, question.LessonID)
	}

	now := time.Now().UTC()
	for id, existing := range m.data.questions {
		if existing.Key() == question.Key() {
			updated := *question
			updated.ID = id
			updated.Options = existing.Options
			updated.CreatedAt = existing.CreatedAt
			updated.UpdatedAt = now
			m.data.questions[id] = updated
			return id, nil
		}
	}

	stored := *question
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.Options = nil
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.data.questions[stored.ID] = stored
	return stored.ID, nil
}

func (q *memoryQuestions) ReplaceOptions(_ context.Context, questionID uuid.UUID, opts []domain.QuestionOption) error {
	m := q.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Questions.ReplaceOptions"); err != nil {
		return err
	}
	question, ok := m.data.questions[questionID]
	if !ok {
		return fmt.Errorf("%w: question %s", store.ErrInvalidReference, questionID)
	}
	replaced := make([]domain.QuestionOption, len(opts))
	for i, opt := range opts {
		if opt.ID == uuid.Nil {
			opt.ID = uuid.New()
		}
		opt.QuestionID = questionID
		replaced[i] = opt
	}
	question.Options = replaced
	m.data.questions[questionID] = question
	return nil
}

func (q *memoryQuestions) RetireAfter(_ context.Context, lessonID uuid.UUID, lastOrder int) (int, error) {
	m := q.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Questions.RetireAfter"); err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	n := 0
	for id, question := range m.data.questions {
		if question.LessonID != lessonID || question.Order <= lastOrder || question.Retired() {
			continue
		}
		question.RetiredAt = &now
		question.UpdatedAt = now
		m.data.questions[id] = question
		n++
	}
	return n, nil
}

func (q *memoryQuestions) GetByID(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	m := q.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Questions.GetByID"); err != nil {
		return nil, err
	}
	question, ok := m.data.questions[id]
	if !ok {
		return nil, store.ErrQuestionNotFound
	}
	question.Options = slices.Clone(question.Options)
	return &question, nil
}

func (q *memoryQuestions) ListByLesson(_ context.Context, lessonID uuid.UUID) ([]domain.Question, error) {
	m := q.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Questions.ListByLesson"); err != nil {
		return nil, err
	}
	out := []domain.Question{}
	for _, question := range m.data.questions {
		if question.LessonID == lessonID && !question.Retired() {
			question.Options = slices.Clone(question.Options)
			out = append(out, question)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// Attempts

type memoryAttempts MemoryDB

func (a *memoryAttempts) db() *MemoryDB { return (*MemoryDB)(a) }

func (a *memoryAttempts) Create(_ context.Context, attempt *domain.QuestionAttempt) error {
	m := a.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Attempts.Create"); err != nil {
		return err
	}
	if _, ok := m.data.questions[attempt.QuestionID]; !ok {
		return fmt.Errorf("%w: question %s", store.ErrInvalidReference, attempt.QuestionID)
	}
	m.data.attempts = append(m.data.attempts, *attempt)
	return nil
}

// latest returns the user's newest attempt per question. Callers hold mu.
func (m *MemoryDB) latest(userID uuid.UUID) map[uuid.UUID]domain.QuestionAttempt {
	out := make(map[uuid.UUID]domain.QuestionAttempt)
	for _, att := range m.data.attempts {
		if att.UserID != userID {
			continue
		}
		if prev, ok := out[att.QuestionID]; !ok || !att.AttemptedAt.Before(prev.AttemptedAt) {
			out[att.QuestionID] = att
		}
	}
	return out
}

func (a *memoryAttempts) GetLatest(_ context.Context, userID, questionID uuid.UUID) (*domain.QuestionAttempt, error) {
	m := a.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Attempts.GetLatest"); err != nil {
		return nil, err
	}
	att, ok := m.latest(userID)[questionID]
	if !ok {
		return nil, store.ErrAttemptNotFound
	}
	return &att, nil
}

func (a *memoryAttempts) ListDue(
	_ context.Context,
	userID uuid.UUID,
	day time.Time,
	limit int,
) ([]store.DueReview, error) {
	m := a.db()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Attempts.ListDue"); err != nil {
		return nil, err
	}
	cutoff := domain.DateOf(day)
	out := []store.DueReview{}
	for qid, att := range m.latest(userID) {
		if att.NextReviewDate.After(cutoff) {
			continue
		}
		question, ok := m.data.questions[qid]
		if !ok {
			continue
		}
		question.Options = slices.Clone(question.Options)
		out = append(out, store.DueReview{Question: question, Attempt: att})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Attempt.NextReviewDate.Equal(out[j].Attempt.NextReviewDate) {
			return out[i].Attempt.NextReviewDate.Before(out[j].Attempt.NextReviewDate)
		}
		return out[i].Question.Order < out[j].Question.Order
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ store.CatalogStore    = (*memoryCatalog)(nil)
	_ store.EnrollmentStore = (*memoryEnrollments)(nil)
	_ store.ProgressStore   = (*memoryProgress)(nil)
	_ store.CompletionStore = (*memoryCompletions)(nil)
	_ store.QuestionStore   = (*memoryQuestions)(nil)
	_ store.AttemptStore    = (*memoryAttempts)(nil)
)
