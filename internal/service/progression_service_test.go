package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeReq(userID, lessonID uuid.UUID, stars, done, correct, xp int) CompleteLessonRequest {
	return CompleteLessonRequest{
		UserID:   userID,
		LessonID: lessonID,
		Input: domain.CompletionInput{
			StarsEarned:        stars,
			QuestionsCompleted: done,
			QuestionsCorrect:   correct,
			XPEarned:           xp,
		},
	}
}

func TestNewProgressionService_RequiresDependencies(t *testing.T) {
	t.Parallel()
	db := mocks.NewMemoryDB()
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	_, err = NewProgressionService(store.Stores{}, db, scheduler, &recordingEmitter{}, config.ProgressionConfig{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewProgressionService(db.Stores(), nil, scheduler, &recordingEmitter{}, config.ProgressionConfig{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewProgressionService(db.Stores(), db, nil, &recordingEmitter{}, config.ProgressionConfig{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewProgressionService(db.Stores(), db, scheduler, nil, config.ProgressionConfig{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompleteLesson_FirstCompletionWithoutProgressRow(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 3, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)

	out, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, lessons[0].ID, 2, 10, 8, 15))
	require.NoError(t, err)

	assert.Equal(t, domain.LessonStatusCompleted, out.Status)
	assert.True(t, out.FirstCompletion)
	assert.Equal(t, 2, out.StarsEarned)
	assert.Equal(t, 15, out.XPEarned)
	assert.Equal(t, 15, out.TotalXP)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 33, out.LevelProgressPercent)
	assert.Equal(t, domain.CEFRLevelA1, out.CEFRLevel)
	assert.False(t, out.LevelAdvanced)
	require.NotNil(t, out.NextLessonID)
	assert.Equal(t, lessons[1].ID, *out.NextLessonID)

	rec, ok := h.db.Progress(userID, lessons[0].ID)
	require.True(t, ok)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 10, rec.QuestionsCompleted)
	assert.Equal(t, 8, rec.QuestionsCorrect)
	require.NotNil(t, rec.CompletedAt)

	next, ok := h.db.Progress(userID, lessons[1].ID)
	require.True(t, ok)
	assert.Equal(t, domain.LessonStatusCurrent, next.Status)

	_, ok = h.db.Progress(userID, lessons[2].ID)
	assert.False(t, ok, "only the next lesson is unlocked")

	st := h.enrollment(t, ulp.ID())
	assert.Equal(t, 8, st.TotalWordsLearned, "vocabulary lesson counts correct answers once")
	require.NotNil(t, st.LastPracticeDate)
	assert.Equal(t, domain.DateOf(h.clock.Now()), *st.LastPracticeDate)

	assert.Equal(t, []string{events.TypeLessonCompleted, events.TypeLessonUnlocked}, h.emitter.types())
	var unlocked events.LessonUnlockedPayload
	require.NoError(t, h.emitter.ofType(events.TypeLessonUnlocked)[0].UnmarshalPayload(&unlocked))
	assert.Equal(t, lessons[1].ID, unlocked.LessonID)
}

func TestCompleteLesson_RepeatCompletion(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 3, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)
	ctx := context.Background()

	_, err := h.svc.CompleteLesson(ctx, completeReq(userID, lessons[0].ID, 3, 10, 9, 10))
	require.NoError(t, err)

	out, err := h.svc.CompleteLesson(ctx, completeReq(userID, lessons[0].ID, 1, 6, 2, 5))
	require.NoError(t, err)

	assert.False(t, out.FirstCompletion)
	assert.Equal(t, 3, out.StarsEarned, "stars never decrease")
	assert.Equal(t, 15, out.TotalXP)
	assert.Equal(t, 1, out.Streak, "same day practice keeps the streak")

	rec, ok := h.db.Progress(userID, lessons[0].ID)
	require.True(t, ok)
	assert.Equal(t, 2, rec.Attempts)
	assert.Equal(t, 6, rec.QuestionsCompleted, "question counts are replaced")
	assert.Equal(t, 2, rec.QuestionsCorrect)

	st := h.enrollment(t, ulp.ID())
	assert.Equal(t, 9, st.TotalWordsLearned, "repeat completions do not count words again")

	assert.Len(t, h.emitter.ofType(events.TypeLessonUnlocked), 1, "the next lesson is unlocked once")
}

func TestCompleteLesson_CurrentRowIsFirstCompletion(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
	userID := uuid.New()
	enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)

	_, err := h.db.Stores().Progress.InsertIfAbsent(context.Background(),
		domain.NewLessonProgress(userID, lessons[0].ID, domain.LessonStatusCurrent))
	require.NoError(t, err)

	out, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, lessons[0].ID, 1, 5, 5, 5))
	require.NoError(t, err)
	assert.True(t, out.FirstCompletion)
}

func TestCompleteLesson_Streak(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 4, domain.CEFRLevelA1)
	userID := uuid.New()
	enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)
	ctx := context.Background()

	steps := []struct {
		advance    time.Duration
		wantStreak int
	}{
		{0, 1},
		{24 * time.Hour, 2},
		{24 * time.Hour, 3},
		{72 * time.Hour, 1},
	}
	for i, step := range steps {
		h.clock.Advance(step.advance)
		out, err := h.svc.CompleteLesson(ctx, completeReq(userID, lessons[i].ID, 1, 1, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, step.wantStreak, out.Streak, "step %d", i)
	}
}

func TestCompleteLesson_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input domain.CompletionInput
	}{
		{"stars above total", domain.CompletionInput{StarsEarned: 4}},
		{"negative xp", domain.CompletionInput{XPEarned: -1}},
		{"correct above completed", domain.CompletionInput{QuestionsCompleted: 2, QuestionsCorrect: 3}},
		{"negative stars", domain.CompletionInput{StarsEarned: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newProgressionHarness(t)
			c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
			userID := uuid.New()
			ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
			lesson := c.lessonsAt(domain.CEFRLevelA1)[0]

			_, err := h.svc.CompleteLesson(context.Background(),
				CompleteLessonRequest{UserID: userID, LessonID: lesson.ID, Input: tt.input})
			assert.ErrorIs(t, err, domain.ErrValidation)

			assert.Zero(t, h.db.ProgressCount(), "nothing is written on validation failure")
			assert.Zero(t, h.enrollment(t, ulp.ID()).TotalXP)
			assert.Empty(t, h.emitter.types())
		})
	}
}

func TestCompleteLesson_NotFound(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]

	_, err := h.svc.CompleteLesson(context.Background(), completeReq(uuid.New(), uuid.New(), 0, 0, 0, 0))
	assert.ErrorIs(t, err, store.ErrLessonNotFound)

	_, err = h.svc.CompleteLesson(context.Background(), completeReq(uuid.New(), lesson.ID, 0, 0, 0, 0))
	assert.ErrorIs(t, err, store.ErrEnrollmentNotFound, "user is not enrolled in the pair")

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "complete_lesson", serviceErr.Op)
}

func TestCompleteLesson_LevelAdvancement(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1, domain.CEFRLevelA2)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	a1 := c.lessonsAt(domain.CEFRLevelA1)
	a2 := c.lessonsAt(domain.CEFRLevelA2)
	ctx := context.Background()

	out, err := h.svc.CompleteLesson(ctx, completeReq(userID, a1[0].ID, 3, 4, 4, 10))
	require.NoError(t, err)
	assert.Equal(t, 50, out.LevelProgressPercent)
	assert.False(t, out.LevelAdvanced)

	out, err = h.svc.CompleteLesson(ctx, completeReq(userID, a1[1].ID, 3, 4, 4, 10))
	require.NoError(t, err)
	assert.True(t, out.LevelAdvanced)
	assert.Equal(t, domain.CEFRLevelA2, out.CEFRLevel)
	assert.Equal(t, 0, out.LevelProgressPercent)
	assert.Nil(t, out.NextLessonID, "last lesson of the unit has no successor")

	st := h.enrollment(t, ulp.ID())
	assert.Equal(t, []domain.CEFRLevel{domain.CEFRLevelA1}, st.CompletedLevels)

	opening, ok := h.db.Progress(userID, a2[0].ID)
	require.True(t, ok, "first lesson of the new level is unlocked")
	assert.Equal(t, domain.LessonStatusCurrent, opening.Status)

	advanced := h.emitter.ofType(events.TypeLevelAdvanced)
	require.Len(t, advanced, 1)
	var payload events.LevelAdvancedPayload
	require.NoError(t, advanced[0].UnmarshalPayload(&payload))
	assert.Equal(t, domain.CEFRLevelA1, payload.From)
	assert.Equal(t, domain.CEFRLevelA2, payload.To)
}

func TestCompleteLesson_TerminalLevel(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelC2)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelC2)
	lesson := c.lessonsAt(domain.CEFRLevelC2)[0]
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out, err := h.svc.CompleteLesson(ctx, completeReq(userID, lesson.ID, 1, 1, 1, 1))
		require.NoError(t, err)
		assert.False(t, out.LevelAdvanced)
		assert.Equal(t, domain.CEFRLevelC2, out.CEFRLevel)
		assert.Equal(t, 100, out.LevelProgressPercent)
	}

	st := h.enrollment(t, ulp.ID())
	assert.Equal(t, []domain.CEFRLevel{domain.CEFRLevelC2}, st.CompletedLevels, "C2 is recorded once")
}

func TestCompleteLesson_RetriesConflicts(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]

	h.db.FailNext("Enrollments.Update", store.ErrConflict, 2)

	out, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, lesson.ID, 1, 1, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, out.TotalXP, "rolled back attempts leave no trace")
	assert.Equal(t, 3, h.db.Calls("Enrollments.Update"))

	rec, ok := h.db.Progress(userID, lesson.ID)
	require.True(t, ok)
	assert.Equal(t, 1, rec.Attempts)
	assert.Equal(t, 10, h.enrollment(t, ulp.ID()).TotalXP)
}

func TestCompleteLesson_ConflictRetriesExhausted(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]

	h.db.FailNext("Progress.Update", store.ErrConflict, 10)

	_, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, lesson.ID, 1, 1, 1, 10))
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, 4, h.db.Calls("Progress.Update"), "one attempt plus three retries")

	assert.Zero(t, h.db.ProgressCount())
	assert.Zero(t, h.enrollment(t, ulp.ID()).TotalXP)
	assert.Empty(t, h.emitter.types())
}

func TestCompleteLesson_OtherErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
	userID := uuid.New()
	enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]
	boom := errors.New("connection reset")

	h.db.FailNext("Progress.Update", boom, 1)

	_, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, lesson.ID, 1, 1, 1, 10))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.db.Calls("Progress.Update"))
}

func TestCompleteLesson_SubmissionIDIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 2, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]
	ctx := context.Background()

	req := completeReq(userID, lesson.ID, 2, 5, 4, 20)
	req.SubmissionID = "submit-1"

	first, err := h.svc.CompleteLesson(ctx, req)
	require.NoError(t, err)
	replay, err := h.svc.CompleteLesson(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, replay)
	assert.Equal(t, 20, h.enrollment(t, ulp.ID()).TotalXP, "XP is counted once")
	rec, _ := h.db.Progress(userID, lesson.ID)
	assert.Equal(t, 1, rec.Attempts)
	assert.Len(t, h.emitter.ofType(events.TypeLessonCompleted), 1)

	req.SubmissionID = "submit-2"
	_, err = h.svc.CompleteLesson(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 40, h.enrollment(t, ulp.ID()).TotalXP)
}

func TestCompleteLesson_ConcurrentCompletionsAllCount(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 2, 5, domain.CEFRLevelA1)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)

	var wg sync.WaitGroup
	errs := make(chan error, len(lessons))
	for _, l := range lessons {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := h.svc.CompleteLesson(context.Background(), completeReq(userID, id, 1, 1, 1, 3))
			errs <- err
		}(l.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	st := h.enrollment(t, ulp.ID())
	assert.Equal(t, 3*len(lessons), st.TotalXP)
	assert.Equal(t, domain.CEFRLevelA2, st.CEFRLevel, "the last completion finishes A1")
	assert.Equal(t, []domain.CEFRLevel{domain.CEFRLevelA1}, st.CompletedLevels)
	assert.Zero(t, st.LevelProgressPercent)
}

func TestSubmitAnswer_SchedulesReviews(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]
	ctx := context.Background()
	userID := uuid.New()

	qid, err := h.db.Stores().Questions.Upsert(ctx, &domain.Question{
		LessonID:      lesson.ID,
		Order:         1,
		QuestionType:  domain.QuestionTypeFillBlank,
		Prompt:        "_____, amigo.",
		CorrectAnswer: "hola",
		Explanation:   "The missing word is 'hola'",
	})
	require.NoError(t, err)

	steps := []struct {
		answer       string
		wantCorrect  bool
		wantInterval int
	}{
		{"  HOLA ", true, 2},
		{"hola", true, 4},
		{"adios", false, 1},
		{"hola", true, 2},
	}
	for i, step := range steps {
		res, err := h.svc.SubmitAnswer(ctx, SubmitAnswerRequest{UserID: userID, QuestionID: qid, Answer: step.answer})
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.wantCorrect, res.IsCorrect, "step %d", i)
		assert.Equal(t, step.wantInterval, res.ReviewIntervalDays, "step %d", i)
		assert.Equal(t, domain.AddDays(h.clock.Now(), step.wantInterval), res.NextReviewDate, "step %d", i)
		assert.Equal(t, "hola", res.CorrectAnswer)
		h.clock.Advance(time.Minute)
	}

	attempts := h.db.Attempts()
	require.Len(t, attempts, len(steps))
	assert.Equal(t, "hola", attempts[0].UserAnswer, "answers are stored normalized")
}

func TestSubmitAnswer_Errors(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]
	ctx := context.Background()

	_, err := h.svc.SubmitAnswer(ctx, SubmitAnswerRequest{UserID: uuid.New(), QuestionID: uuid.New(), Answer: "x"})
	assert.ErrorIs(t, err, store.ErrQuestionNotFound)

	qid, err := h.db.Stores().Questions.Upsert(ctx, &domain.Question{
		LessonID: lesson.ID, Order: 1, QuestionType: domain.QuestionTypeListenType, CorrectAnswer: "agua",
	})
	require.NoError(t, err)

	negative := -5
	_, err = h.svc.SubmitAnswer(ctx, SubmitAnswerRequest{UserID: uuid.New(), QuestionID: qid, Answer: "agua", TimeSpentSec: &negative})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, h.db.Attempts())
}

func TestGetLearningPath(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 2, 2, domain.CEFRLevelA1, domain.CEFRLevelA2)
	userID := uuid.New()
	ulp := enroll(t, h.db, userID, c, domain.CEFRLevelA1)
	lessons := c.lessonsAt(domain.CEFRLevelA1)
	ctx := context.Background()

	path, err := h.svc.GetLearningPath(ctx, userID, ulp.ID())
	require.NoError(t, err)
	require.Len(t, path, 2, "only units at the learner's level")
	assert.Equal(t, 1, path[0].UnitNumber)
	assert.Equal(t, 2, path[1].UnitNumber)
	assert.Equal(t, domain.LessonStatusCurrent, path[0].Lessons[0].Status, "first lesson overall is open")
	assert.Equal(t, domain.LessonStatusLocked, path[0].Lessons[1].Status)
	assert.Equal(t, domain.LessonStatusLocked, path[1].Lessons[0].Status)

	_, err = h.svc.CompleteLesson(ctx, completeReq(userID, lessons[0].ID, 2, 1, 1, 1))
	require.NoError(t, err)
	_, err = h.svc.CompleteLesson(ctx, completeReq(userID, lessons[1].ID, 3, 1, 1, 1))
	require.NoError(t, err)

	path, err = h.svc.GetLearningPath(ctx, userID, ulp.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.LessonStatusCompleted, path[0].Lessons[0].Status)
	assert.Equal(t, 2, path[0].Lessons[0].StarsEarned)
	assert.Equal(t, 3, path[0].Lessons[0].TotalStars)
	assert.Equal(t, domain.LessonStatusCompleted, path[0].Lessons[1].Status)
	assert.Equal(t, domain.LessonStatusCurrent, path[1].Lessons[0].Status, "previous lesson completed across units")
	assert.Equal(t, domain.LessonStatusLocked, path[1].Lessons[1].Status)
}

func TestGetLearningPath_OtherUsersEnrollmentIsNotFound(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelA1)
	ulp := enroll(t, h.db, uuid.New(), c, domain.CEFRLevelA1)

	_, err := h.svc.GetLearningPath(context.Background(), uuid.New(), ulp.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = h.svc.GetLearningPath(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetDueReviews(t *testing.T) {
	t.Parallel()
	h := newProgressionHarness(t)
	c := seedCourse(t, h.db, 1, 1, domain.CEFRLevelA1)
	lesson := c.lessonsAt(domain.CEFRLevelA1)[0]
	ctx := context.Background()
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 1; i <= 2; i++ {
		id, err := h.db.Stores().Questions.Upsert(ctx, &domain.Question{
			LessonID: lesson.ID, Order: i, QuestionType: domain.QuestionTypeListenType, CorrectAnswer: "agua",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := h.svc.SubmitAnswer(ctx, SubmitAnswerRequest{UserID: userID, QuestionID: ids[0], Answer: "nope"})
	require.NoError(t, err)
	_, err = h.svc.SubmitAnswer(ctx, SubmitAnswerRequest{UserID: userID, QuestionID: ids[1], Answer: "agua"})
	require.NoError(t, err)

	due, err := h.svc.GetDueReviews(ctx, userID, 0)
	require.NoError(t, err)
	assert.Empty(t, due, "nothing is due on the day it was answered")

	h.clock.Advance(24 * time.Hour)
	due, err = h.svc.GetDueReviews(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, ids[0], due[0].Question.ID)

	h.clock.Advance(24 * time.Hour)
	due, err = h.svc.GetDueReviews(ctx, userID, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1, "limit applies")
}
