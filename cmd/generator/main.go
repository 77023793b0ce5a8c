// Package main implements the question generator. It regenerates the
// questions of every lesson (or a single one) and exits, or keeps doing so
// on the configured schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/platform/redis"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

func main() {
	lesson := flag.String("lesson", "", "regenerate a single lesson by ID")
	schedule := flag.Bool("schedule", false, "keep running and regenerate on generation.schedule_interval")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	l = l.With(slog.String("component", "generator"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l, *lesson, *schedule); err != nil {
		l.Error("Generator failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, l *slog.Logger, lesson string, schedule bool) error {
	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	locker, closeLocker, err := newLessonLocker(ctx, cfg, db, l)
	if err != nil {
		return err
	}
	defer closeLocker()

	emitter := events.NewInMemoryEventEmitter(l)
	emitter.RegisterHandler(events.NewLoggingHandler(l))

	rnd := generation.NewTimeSeededSource()
	if cfg.Generation.Seed != 0 {
		rnd = generation.NewSeededSource(cfg.Generation.Seed)
	}

	svc, err := service.NewGenerationService(
		postgres.NewStores(db, l),
		postgres.NewTransactor(db, l),
		locker,
		generation.NewEngine(rnd),
		emitter,
		cfg.Generation,
		l,
	)
	if err != nil {
		return fmt.Errorf("failed to create generation service: %w", err)
	}

	if lesson != "" {
		lessonID, err := uuid.Parse(lesson)
		if err != nil {
			return fmt.Errorf("invalid lesson id %q: %w", lesson, err)
		}
		n, err := svc.GenerateQuestions(ctx, lessonID)
		if err != nil {
			return err
		}
		l.Info("lesson regenerated", slog.String("lesson_id", lessonID.String()), slog.Int("questions", n))
		return nil
	}

	if !schedule {
		_, err := svc.GenerateAll(ctx)
		return err
	}
	return runScheduled(ctx, cfg.Generation.Interval, svc, l)
}

// runScheduled runs GenerateAll once and then on every interval until ctx ends.
func runScheduled(ctx context.Context, interval time.Duration, svc service.GenerationService, l *slog.Logger) error {
	if interval <= 0 {
		return errors.New("generation.schedule_interval must be set to run on a schedule")
	}

	if _, err := svc.GenerateAll(ctx); err != nil {
		l.Error("initial generation run had failures", slog.String("error", err.Error()))
	}

	scheduler := task.NewScheduler(l)
	err := scheduler.Every(interval, "generate_all", func(ctx context.Context) error {
		_, err := svc.GenerateAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()

	l.Info("generator stopped")
	return nil
}

// newLessonLocker returns the Redis lock when an address is configured and
// the Postgres advisory lock otherwise.
func newLessonLocker(
	ctx context.Context,
	cfg *config.Config,
	db *sqlx.DB,
	l *slog.Logger,
) (store.LessonLocker, func(), error) {
	if cfg.Redis.Addr == "" {
		return postgres.NewAdvisoryLocker(db, l), func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return redis.NewLocker(client, cfg.Redis.LockTTL, l), func() { _ = client.Close() }, nil
}
