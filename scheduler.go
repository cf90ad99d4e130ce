package tlstats

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// DefaultInitialDelay is how long a scheduled task waits before its
	// first aggregation pass.
	DefaultInitialDelay = time.Second

	// DefaultInterval is the period between aggregation passes.
	DefaultInterval = time.Second
)

// SchedulerConfig controls the timing of a scheduled aggregation task.
type SchedulerConfig struct {
	// InitialDelay is the wait before the first pass (default: 1s)
	InitialDelay time.Duration

	// Interval is the period between passes (default: 1s)
	Interval time.Duration

	// Clock is the tick source. Defaults to the wall clock; tests inject
	// a mock to drive the task deterministically.
	Clock clock.Clock
}

// DefaultSchedulerConfig returns the production timing: first pass after
// one second, then one pass per second.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		InitialDelay: DefaultInitialDelay,
		Interval:     DefaultInterval,
		Clock:        clock.New(),
	}
}

func (cfg SchedulerConfig) withDefaults() SchedulerConfig {
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultInitialDelay
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return cfg
}

// Task is a periodic aggregation loop, created by ScheduleAggregation and
// not running until handed to a goroutine.
//
// A Task has no stop API of its own: it runs until its context is
// cancelled or the process exits.
type Task struct {
	registry *Registry
	cfg      SchedulerConfig
}

// Run executes the task: it waits the configured initial delay, then runs
// one aggregation pass per interval until ctx is done.
//
// Run always returns ctx.Err(). It is intended to be the body of a
// dedicated goroutine:
//
//	task, _ := registry.ScheduleAggregation()
//	go task.Run(ctx)
func (t *Task) Run(ctx context.Context) error {
	clk := t.cfg.Clock

	delay := clk.Timer(t.cfg.InitialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-delay.C:
	}
	t.registry.AggregateAll()

	ticker := clk.Ticker(t.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.registry.AggregateAll()
		}
	}
}

// ScheduleAggregation claims ownership of periodic aggregation for this
// registry, using the default timing.
//
// The first call in a registry's lifetime returns the task as success: the
// caller is the canonical owner and must hand the task to a goroutine
// exactly once. Every later call returns the same task together with an
// *AlreadyScheduledError, so a late caller still has a handle on the loop
// but knows it does not own it. The task is constructed exactly once; a
// duplicate call never creates a second, independent loop.
//
// There is no way to unschedule in a running process.
func (r *Registry) ScheduleAggregation() (*Task, error) {
	return r.ScheduleAggregationWithConfig(DefaultSchedulerConfig())
}

// ScheduleAggregationWithConfig is ScheduleAggregation with explicit
// timing. The configuration of the first call wins; later calls get the
// already-built task and their configuration is ignored.
func (r *Registry) ScheduleAggregationWithConfig(cfg SchedulerConfig) (*Task, error) {
	r.taskOnce.Do(func() {
		r.task = &Task{registry: r, cfg: cfg.withDefaults()}
	})
	if r.scheduled.Swap(true) {
		return r.task, &AlreadyScheduledError{Task: r.task}
	}
	return r.task, nil
}

// DriveAggregation runs one aggregation pass per element received on ticks
// and returns when the channel is closed.
//
// This is the low-level seam behind Task.Run, exposed so tests (and
// callers with their own timer machinery) can drive aggregation from an
// arbitrary tick source. Production code should prefer
// ScheduleAggregation, which also enforces single-flight ownership.
func (r *Registry) DriveAggregation(ticks <-chan time.Time) {
	for range ticks {
		r.AggregateAll()
	}
}
