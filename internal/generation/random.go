package generation

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource supplies the shuffles used while building questions.
type RandomSource interface {
	Shuffle(n int, swap func(i, j int))
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(n, swap)
}

// NewSeededSource returns a source that produces the same shuffles for the
// same seed. It is safe for concurrent use.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededSource returns a source seeded from the current time.
func NewTimeSeededSource() RandomSource {
	return NewSeededSource(uint64(time.Now().UnixNano()))
}
