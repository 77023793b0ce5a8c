package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// ErrInvalidInterval is returned for a non-positive job interval.
var ErrInvalidInterval = errors.New("job interval must be positive")

// JobFunc is a recurring job. The context is canceled when the scheduler stops.
type JobFunc func(ctx context.Context) error

// Scheduler runs recurring jobs on fixed intervals. A job never overlaps
// with a previous run of itself.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
}

// NewScheduler creates a stopped scheduler working in UTC.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With(slog.String("component", "scheduler")),
	}
}

// Every registers job to run each interval, first after one full interval.
func (s *Scheduler) Every(interval time.Duration, name string, job JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	_, err := s.scheduler.Every(interval).Tag(name).WaitForSchedule().Do(func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	s.logger.Info("job scheduled", slog.String("job", name), slog.Duration("interval", interval))
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	log := s.logger.With(slog.String("job", name))
	started := time.Now()

	if err := job(s.ctx); err != nil {
		log.Error("scheduled job failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(started)))
		return
	}
	log.Info("scheduled job finished", slog.Duration("duration", time.Since(started)))
}

// Start begins running the registered jobs without blocking.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop cancels running jobs and stops the schedule.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}
