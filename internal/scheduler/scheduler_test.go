package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	job := Job{
		Name:     "refresh",
		Interval: 10 * time.Millisecond,
		Runner: RunnerFunc(func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return nil
		}),
	}

	err := NewScheduler(testLogger(), job).Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	job := Job{
		Name:     "reminders",
		Interval: 5 * time.Millisecond,
		Runner: RunnerFunc(func(context.Context) error {
			if runs.Add(1) == 2 {
				cancel()
			}
			return errors.New("boom")
		}),
	}

	err := NewScheduler(testLogger(), job).Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestScheduler_AppliesTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var deadline atomic.Bool
	job := Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  time.Millisecond,
		Runner: RunnerFunc(func(runCtx context.Context) error {
			<-runCtx.Done()
			deadline.Store(errors.Is(runCtx.Err(), context.DeadlineExceeded))
			cancel()
			return runCtx.Err()
		}),
	}

	_ = NewScheduler(testLogger(), job).Start(ctx)
	assert.True(t, deadline.Load())
}

func TestScheduler_NoJobs(t *testing.T) {
	err := NewScheduler(testLogger()).Start(context.Background())
	require.Error(t, err)
}
