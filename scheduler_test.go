package tlstats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestScheduleAggregation_FirstCallWins(t *testing.T) {
	r := NewRegistry()

	task, err := r.ScheduleAggregation()
	if err != nil {
		t.Fatalf("first ScheduleAggregation() error = %v, want nil", err)
	}
	if task == nil {
		t.Fatal("first ScheduleAggregation() returned nil task")
	}

	for i := 0; i < 3; i++ {
		dup, err := r.ScheduleAggregation()
		if err == nil {
			t.Fatal("repeat ScheduleAggregation() error = nil, want AlreadyScheduledError")
		}
		if !errors.Is(err, ErrAlreadyScheduled) {
			t.Errorf("errors.Is(err, ErrAlreadyScheduled) = false for %v", err)
		}
		var scheduled *AlreadyScheduledError
		if !errors.As(err, &scheduled) {
			t.Fatalf("errors.As(%v, *AlreadyScheduledError) = false", err)
		}
		// The duplicate request gets the canonical task, not a second loop.
		if dup != task || scheduled.Task != task {
			t.Error("repeat ScheduleAggregation() returned a different task")
		}
	}
}

func TestScheduleAggregation_IndependentRegistries(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	if _, err := a.ScheduleAggregation(); err != nil {
		t.Errorf("registry a: first schedule error = %v, want nil", err)
	}
	if _, err := b.ScheduleAggregation(); err != nil {
		t.Errorf("registry b: first schedule error = %v, want nil", err)
	}
}

func TestDriveAggregation_OnePassPerTick(t *testing.T) {
	r := NewRegistry()
	c := Register(r, newCountingStat)
	local := c.Local(NextWorkerID())

	ticks := make(chan time.Time, 3)
	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}
	close(ticks)

	r.DriveAggregation(ticks)

	if got := local.aggregations.Load(); got != 3 {
		t.Errorf("aggregated %d times for 3 ticks, want 3", got)
	}
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestTask_Run_MockClock(t *testing.T) {
	mock := clock.NewMock()
	r := NewRegistry()
	c := Register(r, newCountingStat)
	local := c.Local(NextWorkerID())

	task, err := r.ScheduleAggregationWithConfig(SchedulerConfig{
		InitialDelay: time.Second,
		Interval:     time.Second,
		Clock:        mock,
	})
	if err != nil {
		t.Fatalf("ScheduleAggregationWithConfig() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- task.Run(ctx)
	}()

	// Give the task a moment to arm its initial-delay timer.
	time.Sleep(10 * time.Millisecond)

	mock.Add(time.Second)
	waitFor(t, func() bool { return local.aggregations.Load() == 1 },
		"no aggregation after initial delay")

	// The task arms its interval ticker right after the first pass; give
	// it a moment before advancing the clock again.
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)
	waitFor(t, func() bool { return local.aggregations.Load() == 2 },
		"no aggregation after first interval")

	mock.Add(time.Second)
	waitFor(t, func() bool { return local.aggregations.Load() == 3 },
		"no aggregation after second interval")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestTask_Run_CancelBeforeFirstTick(t *testing.T) {
	mock := clock.NewMock()
	r := NewRegistry()
	c := Register(r, newCountingStat)
	local := c.Local(NextWorkerID())

	task, err := r.ScheduleAggregationWithConfig(SchedulerConfig{Clock: mock})
	if err != nil {
		t.Fatalf("ScheduleAggregationWithConfig() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- task.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if got := local.aggregations.Load(); got != 0 {
		t.Errorf("aggregated %d times before first tick, want 0", got)
	}
}

func TestSchedulerConfig_Defaults(t *testing.T) {
	cfg := SchedulerConfig{}.withDefaults()

	if cfg.InitialDelay != DefaultInitialDelay {
		t.Errorf("InitialDelay = %v, want %v", cfg.InitialDelay, DefaultInitialDelay)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
	if cfg.Clock == nil {
		t.Error("Clock = nil, want wall clock")
	}
}
