// Package main implements the entry point for the Lingo API server, which
// serves lesson progression, answer grading and review scheduling for
// language learners.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateCmd != "" {
		if err := runMigrations(ctx, cfg, *migrateCmd, l); err != nil {
			l.Error("Migration failed", slog.String("command", *migrateCmd), slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, l); err != nil {
		l.Error("Server terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run opens the database, builds the application and serves until ctx ends.
func run(ctx context.Context, cfg *config.Config, l *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from the environment,
// an optional .env file and an optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// runMigrations executes a goose command against the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	switch command {
	case "up":
		return postgres.Migrate(ctx, db.DB, l)
	case "down":
		return postgres.MigrateDown(ctx, db.DB, l)
	case "status":
		return postgres.MigrationStatus(ctx, db.DB, l)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
