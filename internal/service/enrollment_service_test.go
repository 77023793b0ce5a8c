package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnrollmentService(t *testing.T) (*mocks.MemoryDB, *recordingEmitter, EnrollmentService) {
	t.Helper()
	db := mocks.NewMemoryDB()
	emitter := &recordingEmitter{}
	svc, err := NewEnrollmentService(db.Stores(), db, emitter, nil)
	require.NoError(t, err)
	return db, emitter, svc
}

func TestEnroll_DefaultsToA1AndOpensFirstLesson(t *testing.T) {
	t.Parallel()
	db, emitter, svc := newTestEnrollmentService(t)
	c := seedCourse(t, db, 2, 2, domain.CEFRLevelA1, domain.CEFRLevelA2)
	userID := uuid.New()

	ulp, err := svc.Enroll(context.Background(), userID, c.pair.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.CEFRLevelA1, ulp.CEFRLevel())
	assert.Equal(t, userID, ulp.UserID())
	assert.Zero(t, ulp.TotalXP())

	first := c.lessonsAt(domain.CEFRLevelA1)[0]
	rec, ok := db.Progress(userID, first.ID)
	require.True(t, ok)
	assert.Equal(t, domain.LessonStatusCurrent, rec.Status)
	assert.Equal(t, 1, db.ProgressCount())

	unlocked := emitter.ofType(events.TypeLessonUnlocked)
	require.Len(t, unlocked, 1)
	var payload events.LessonUnlockedPayload
	require.NoError(t, unlocked[0].UnmarshalPayload(&payload))
	assert.Equal(t, first.ID, payload.LessonID)
}

func TestEnroll_AtChosenLevel(t *testing.T) {
	t.Parallel()
	db, _, svc := newTestEnrollmentService(t)
	c := seedCourse(t, db, 1, 2, domain.CEFRLevelA1, domain.CEFRLevelB1)
	userID := uuid.New()

	ulp, err := svc.Enroll(context.Background(), userID, c.pair.ID, domain.CEFRLevelB1)
	require.NoError(t, err)
	assert.Equal(t, domain.CEFRLevelB1, ulp.CEFRLevel())

	_, ok := db.Progress(userID, c.lessonsAt(domain.CEFRLevelB1)[0].ID)
	assert.True(t, ok)
}

func TestEnroll_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(db *mocks.MemoryDB, c *course) (uuid.UUID, domain.CEFRLevel)
		wantErr error
	}{
		{
			name: "unknown pair",
			setup: func(_ *mocks.MemoryDB, _ *course) (uuid.UUID, domain.CEFRLevel) {
				return uuid.New(), ""
			},
			wantErr: store.ErrLanguagePairNotFound,
		},
		{
			name: "inactive pair",
			setup: func(db *mocks.MemoryDB, c *course) (uuid.UUID, domain.CEFRLevel) {
				inactive := c.pair
				inactive.ID = uuid.New()
				inactive.IsActive = false
				db.AddLanguagePair(inactive)
				return inactive.ID, ""
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "invalid level",
			setup: func(_ *mocks.MemoryDB, c *course) (uuid.UUID, domain.CEFRLevel) {
				return c.pair.ID, "D1"
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, emitter, svc := newTestEnrollmentService(t)
			c := seedCourse(t, db, 1, 1, domain.CEFRLevelA1)
			pairID, level := tt.setup(db, c)

			_, err := svc.Enroll(context.Background(), uuid.New(), pairID, level)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, db.ProgressCount())
			assert.Empty(t, emitter.types())
		})
	}
}

func TestEnroll_DuplicateIsRejected(t *testing.T) {
	t.Parallel()
	db, _, svc := newTestEnrollmentService(t)
	c := seedCourse(t, db, 1, 1, domain.CEFRLevelA1)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Enroll(ctx, userID, c.pair.ID, "")
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, userID, c.pair.ID, domain.CEFRLevelA2)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	list, err := svc.ListEnrollments(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.CEFRLevelA1, list[0].CEFRLevel())
}

func TestListEnrollments(t *testing.T) {
	t.Parallel()
	db, _, svc := newTestEnrollmentService(t)
	first := seedCourse(t, db, 1, 1, domain.CEFRLevelA1)
	second := seedCourse(t, db, 1, 1, domain.CEFRLevelA1)
	userID := uuid.New()
	ctx := context.Background()

	list, err := svc.ListEnrollments(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Enroll(ctx, userID, first.pair.ID, "")
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, userID, second.pair.ID, "")
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, uuid.New(), second.pair.ID, "")
	require.NoError(t, err)

	list, err = svc.ListEnrollments(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
