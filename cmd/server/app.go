package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/platform/redis"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	redis  *goredis.Client

	// Service interfaces
	jwtService         auth.JWTService
	enrollmentService  service.EnrollmentService
	progressionService service.ProgressionService
	catalogService     service.CatalogService
	generationService  service.GenerationService

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// Task handling
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	locker, err := app.newLessonLocker(ctx)
	if err != nil {
		return nil, err
	}

	if err := app.wire(postgres.NewStores(db, logger), postgres.NewTransactor(db, logger), locker); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully",
		slog.Int("port", cfg.Server.Port),
		slog.Bool("redis_lock", app.redis != nil),
		slog.Int("generation_workers", cfg.Generation.Workers))
	return app, nil
}

// wire builds the services on top of the storage layer and starts the
// background task processing.
func (app *application) wire(stores store.Stores, tx store.Transactor, locker store.LessonLocker) error {
	cfg := app.config
	logger := app.logger

	scheduler, err := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MaxIntervalDays: cfg.SRS.MaxIntervalDays,
	}))
	if err != nil {
		return fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	app.enrollmentService, err = service.NewEnrollmentService(stores, tx, app.eventEmitter, logger)
	if err != nil {
		return fmt.Errorf("failed to create enrollment service: %w", err)
	}

	app.progressionService, err = service.NewProgressionService(
		stores,
		tx,
		scheduler,
		app.eventEmitter,
		cfg.Progression,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create progression service: %w", err)
	}

	app.catalogService, err = service.NewCatalogService(stores, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}

	app.generationService, err = service.NewGenerationService(
		stores,
		tx,
		locker,
		generation.NewEngine(randomSource(cfg.Generation)),
		app.eventEmitter,
		cfg.Generation,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create generation service: %w", err)
	}

	app.setupTaskProcessing()
	return nil
}

// newLessonLocker returns the Redis lock when an address is configured and
// the Postgres advisory lock otherwise.
func (app *application) newLessonLocker(ctx context.Context) (store.LessonLocker, error) {
	if app.config.Redis.Addr == "" {
		app.logger.Info("Using Postgres advisory locks for question generation")
		return postgres.NewAdvisoryLocker(app.db, app.logger), nil
	}

	client, err := redis.NewClient(ctx, app.config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	app.logger.Info("Using Redis locks for question generation", slog.Duration("lock_ttl", app.config.Redis.LockTTL))
	return redis.NewLocker(client, app.config.Redis.LockTTL, app.logger), nil
}

// setupTaskProcessing starts the workers that generate questions for lessons
// as they are unlocked.
func (app *application) setupTaskProcessing() {
	app.taskQueue = task.NewTaskQueue(app.config.Generation.QueueSize, app.logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: app.config.Generation.Workers,
	}, app.logger)
	app.workerPool.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Error("question generation task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("error", err.Error()))
	})

	factory := task.NewQuestionGenerationTaskFactory(app.generationService, app.logger)
	app.eventEmitter.RegisterHandler(task.NewLessonUnlockedHandler(factory, app.taskQueue, app.logger))

	app.workerPool.Start()
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}
	if app.workerPool != nil {
		app.workerPool.Stop()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}

// randomSource seeds the distractor shuffles. A fixed seed makes runs reproducible.
func randomSource(cfg config.GenerationConfig) generation.RandomSource {
	if cfg.Seed != 0 {
		return generation.NewSeededSource(cfg.Seed)
	}
	return generation.NewTimeSeededSource()
}
