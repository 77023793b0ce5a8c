package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/store"
)

// MockLocker is an in-process store.LessonLocker.
type MockLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool

	// AcquireErr, when set, is returned by every Acquire.
	AcquireErr error
}

// NewMockLocker creates a MockLocker with no locks held.
func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[uuid.UUID]bool)}
}

// Acquire implements store.LessonLocker.
func (l *MockLocker) Acquire(_ context.Context, lessonID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.AcquireErr != nil {
		return nil, l.AcquireErr
	}
	if l.held[lessonID] {
		return nil, store.ErrLockHeld
	}
	l.held[lessonID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, lessonID)
			l.mu.Unlock()
		})
	}, nil
}

// Held reports whether lessonID is currently locked.
func (l *MockLocker) Held(lessonID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[lessonID]
}

var _ store.LessonLocker = (*MockLocker)(nil)
