package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/lingo-api/internal/store"
)

// NewStores binds every Postgres store to db, which may be a pool or a transaction.
func NewStores(db store.DBTX, logger *slog.Logger) store.Stores {
	return store.Stores{
		Catalog:     NewPostgresCatalogStore(db, logger),
		Enrollments: NewPostgresEnrollmentStore(db, logger),
		Progress:    NewPostgresProgressStore(db, logger),
		Questions:   NewPostgresQuestionStore(db, logger),
		Attempts:    NewPostgresAttemptStore(db, logger),
		Completions: NewPostgresCompletionStore(db, logger),
	}
}

// Transactor implements store.Transactor on a connection pool.
type Transactor struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewTransactor creates a Transactor. If logger is nil, a default logger will be used.
func NewTransactor(db *sqlx.DB, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transactor{db: db, logger: logger}
}

var _ store.Transactor = (*Transactor)(nil)

// WithinTx implements store.Transactor.WithinTx
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, NewStores(tx, t.logger))
	})
}
