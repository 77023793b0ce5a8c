package service

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 20 * time.Millisecond
)

// conflictRetrier reruns a unit of work that failed with store.ErrConflict.
// Any other error is returned at once.
type conflictRetrier struct {
	maxRetries uint64
	baseDelay  time.Duration
}

func newConflictRetrier(cfg config.ProgressionConfig) conflictRetrier {
	r := conflictRetrier{maxRetries: defaultMaxRetries, baseDelay: defaultRetryBaseDelay}
	if cfg.MaxRetries > 0 {
		r.maxRetries = uint64(cfg.MaxRetries)
	}
	if cfg.RetryBaseDelay > 0 {
		r.baseDelay = cfg.RetryBaseDelay
	}
	return r
}

// Do runs fn until it succeeds, fails with a non-conflict error, or the
// retries run out. Exhaustion returns the last conflict unchanged.
func (r conflictRetrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.baseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && errors.Is(err, store.ErrConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
