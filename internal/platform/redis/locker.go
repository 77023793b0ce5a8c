package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// lockKeyPrefix namespaces generation locks.
	lockKeyPrefix = "lock:generation:"

	dialTimeout = 5 * time.Second
)

// ErrConnection is returned when Redis cannot be reached.
var ErrConnection = errors.New("redis connection failed")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another worker is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewClient opens a client and verifies it with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return client, nil
}

// Locker implements store.LessonLocker with SET NX PX and a token-checked
// release. The TTL bounds how long a crashed worker can block a lesson.
type Locker struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewLocker creates a Locker. If logger is nil, a default logger will be used.
func NewLocker(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Locker {
	if client == nil {
		panic("client cannot be nil")
	}
	if ttl <= 0 {
		panic("ttl must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_locker")),
	}
}

var _ store.LessonLocker = (*Locker)(nil)

// Key returns the Redis key guarding a lesson.
func Key(lessonID uuid.UUID) string {
	return lockKeyPrefix + lessonID.String()
}

// Acquire implements store.LessonLocker.Acquire
func (l *Locker) Acquire(ctx context.Context, lessonID uuid.UUID) (func(), error) {
	key := Key(lessonID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !ok {
		return nil, store.ErrLockHeld
	}

	l.logger.DebugContext(ctx, "generation lock acquired",
		slog.String("lesson_id", lessonID.String()),
		slog.Duration("ttl", l.ttl))

	return func() {
		// The caller's context may already be cancelled; release regardless.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dialTimeout)
		defer cancel()

		n, err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Int()
		switch {
		case err != nil:
			l.logger.Warn("failed to release generation lock",
				slog.String("lesson_id", lessonID.String()),
				slog.String("error", err.Error()))
		case n == 0:
			l.logger.Warn("generation lock expired before release",
				slog.String("lesson_id", lessonID.String()))
		}
	}, nil
}
