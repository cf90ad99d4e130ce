package stat

import (
	"sync/atomic"

	"github.com/wesleyorama2/tlstats"
)

// Gauge tracks a value that moves up and down, such as in-flight requests.
//
// Each worker maintains its own current value; the canonical value is the
// sum across workers, refreshed by the aggregation pass. The pass applies
// only the change since the previous pass, so it stays idempotent when
// nothing moved.
type Gauge struct {
	name   string
	value  atomic.Int64
	locals *tlstats.Container[*GaugeLocal]
}

// NewGauge creates a gauge family and registers it with r.
func NewGauge(r *tlstats.Registry, name string) *Gauge {
	g := &Gauge{name: name}
	g.locals = tlstats.Register(r, func() *GaugeLocal {
		return &GaugeLocal{gauge: g}
	})
	return g
}

// Name returns the family name given at construction.
func (g *Gauge) Name() string {
	return g.name
}

// Local returns the given worker's local instance, creating it on first
// access.
func (g *Gauge) Local(id tlstats.WorkerID) *GaugeLocal {
	return g.locals.Local(id)
}

// Set sets the given worker's contribution to the gauge.
func (g *Gauge) Set(id tlstats.WorkerID, v int64) {
	g.locals.Local(id).Set(v)
}

// Add adjusts the given worker's contribution by n (n may be negative).
func (g *Gauge) Add(id tlstats.WorkerID, n int64) {
	g.locals.Local(id).Add(n)
}

// Value returns the cross-worker sum as of the last aggregation pass.
func (g *Gauge) Value() int64 {
	return g.value.Load()
}

// GaugeLocal is one worker's write handle on a Gauge.
type GaugeLocal struct {
	gauge   *Gauge
	current atomic.Int64

	// reported is the value already folded into the canonical sum. Only
	// the aggregation pass touches it, and the registry lock serializes
	// passes.
	reported int64
}

// Set sets this worker's contribution.
func (l *GaugeLocal) Set(v int64) {
	l.current.Store(v)
}

// Add adjusts this worker's contribution by n (n may be negative).
func (l *GaugeLocal) Add(n int64) {
	l.current.Add(n)
}

// Aggregate folds the change since the last pass into the canonical sum.
func (l *GaugeLocal) Aggregate() {
	cur := l.current.Load()
	if delta := cur - l.reported; delta != 0 {
		l.gauge.value.Add(delta)
		l.reported = cur
	}
}
