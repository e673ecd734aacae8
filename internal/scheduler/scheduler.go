package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Runner is one unit of periodic work.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Job is a named runner with its own interval. Timeout bounds each run and
// defaults to five minutes.
type Job struct {
	Name     string
	Runner   Runner
	Interval time.Duration
	Timeout  time.Duration
}

type Scheduler struct {
	jobs   []Job
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		logger: logger.With("component", "scheduler"),
	}
}

// Start runs every job immediately and then on its interval until ctx is
// cancelled. It returns ctx's error once all jobs have stopped.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		return errors.New("no jobs scheduled")
	}

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, job)
		}()
	}
	wg.Wait()

	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	s.logger.Info("job started", "job", job.Name, "interval", job.Interval)

	s.run(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, job)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	timeout := job.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := job.Runner.Run(runCtx); err != nil {
		s.logger.Error("job failed", "job", job.Name, "error", err)
	}
}
