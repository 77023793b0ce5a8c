package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/lingo-api/internal/store"
)

// advisoryLockNamespace keeps generation locks apart from other advisory
// lock users of the same database.
const advisoryLockNamespace = "lingo:generation"

// AdvisoryLocker implements store.LessonLocker with transaction-scoped
// Postgres advisory locks. The lock lives as long as a dedicated
// transaction, which release rolls back.
type AdvisoryLocker struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewAdvisoryLocker creates a locker on the pool.
func NewAdvisoryLocker(db *sqlx.DB, logger *slog.Logger) *AdvisoryLocker {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvisoryLocker{
		db:     db,
		logger: logger.With(slog.String("component", "advisory_locker")),
	}
}

var _ store.LessonLocker = (*AdvisoryLocker)(nil)

// Acquire implements store.LessonLocker.Acquire
func (l *AdvisoryLocker) Acquire(ctx context.Context, lessonID uuid.UUID) (func(), error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin lock transaction: %v", store.ErrTransactionFailed, err)
	}

	var acquired bool
	err = tx.GetContext(ctx, &acquired,
		`SELECT pg_try_advisory_xact_lock(hashtext($1), hashtext($2))`,
		advisoryLockNamespace, lessonID.String())
	if err != nil {
		_ = tx.Rollback()
		return nil, MapError(err)
	}
	if !acquired {
		_ = tx.Rollback()
		return nil, store.ErrLockHeld
	}

	l.logger.DebugContext(ctx, "generation lock acquired", slog.String("lesson_id", lessonID.String()))
	return func() {
		if err := tx.Rollback(); err != nil {
			l.logger.Warn("failed to release generation lock",
				slog.String("lesson_id", lessonID.String()),
				slog.String("error", err.Error()))
		}
	}, nil
}
