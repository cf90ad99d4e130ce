package stat

import (
	"sync/atomic"

	"github.com/wesleyorama2/tlstats"
)

// Counter is a counter family aggregated across workers.
//
// Workers add deltas to their own local instance with no coordination; the
// aggregation pass folds pending deltas into the canonical total. Value
// therefore trails the true count by at most one aggregation interval.
type Counter struct {
	name   string
	total  atomic.Int64
	locals *tlstats.Container[*CounterLocal]
}

// NewCounter creates a counter family and registers it with r.
func NewCounter(r *tlstats.Registry, name string) *Counter {
	c := &Counter{name: name}
	c.locals = tlstats.Register(r, func() *CounterLocal {
		return &CounterLocal{counter: c}
	})
	return c
}

// Name returns the family name given at construction.
func (c *Counter) Name() string {
	return c.name
}

// Local returns the given worker's local instance, creating it on first
// access. Hot loops should keep the returned instance.
func (c *Counter) Local(id tlstats.WorkerID) *CounterLocal {
	return c.locals.Local(id)
}

// Add records a delta on behalf of the given worker.
func (c *Counter) Add(id tlstats.WorkerID, n int64) {
	c.locals.Local(id).Add(n)
}

// Incr records a delta of one on behalf of the given worker.
func (c *Counter) Incr(id tlstats.WorkerID) {
	c.Add(id, 1)
}

// Value returns the canonical total as of the last aggregation pass.
func (c *Counter) Value() int64 {
	return c.total.Load()
}

// CounterLocal is one worker's write handle on a Counter.
type CounterLocal struct {
	counter *Counter
	pending atomic.Int64
}

// Add records a delta. Lock-free; touches only this worker's state.
func (l *CounterLocal) Add(n int64) {
	l.pending.Add(n)
}

// Incr records a delta of one.
func (l *CounterLocal) Incr() {
	l.pending.Add(1)
}

// Aggregate folds this worker's pending deltas into the canonical total.
// Swapping the pending value to zero makes the fold idempotent: a second
// pass with no intervening writes moves nothing.
func (l *CounterLocal) Aggregate() {
	if d := l.pending.Swap(0); d != 0 {
		l.counter.total.Add(d)
	}
}
