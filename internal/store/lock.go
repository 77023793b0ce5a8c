package store

import (
	"context"

	"github.com/google/uuid"
)

// LessonLocker serializes question generation per lesson.
type LessonLocker interface {
	// Acquire takes the lesson's generation lock without waiting. It returns
	// ErrLockHeld when another worker holds it. The returned release func
	// must be called once the work is done.
	Acquire(ctx context.Context, lessonID uuid.UUID) (release func(), err error)
}
