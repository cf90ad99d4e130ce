package stat

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/tlstats"
)

// TimingConfig bounds the HDR histograms backing a Timing.
type TimingConfig struct {
	// MinValue is the minimum recordable value in microseconds (default: 1)
	MinValue int64

	// MaxValue is the maximum recordable value in microseconds
	// (default: 3600000000 = 1 hour)
	MaxValue int64

	// SigFigs is the number of significant figures (default: 3)
	SigFigs int
}

// DefaultTimingConfig returns histogram bounds suitable for request
// latencies: 1 microsecond to 1 hour at 3 significant figures.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		MinValue: 1,
		MaxValue: 3600000000,
		SigFigs:  3,
	}
}

func (cfg TimingConfig) withDefaults() TimingConfig {
	def := DefaultTimingConfig()
	if cfg.MinValue <= 0 {
		cfg.MinValue = def.MinValue
	}
	if cfg.MaxValue <= cfg.MinValue {
		cfg.MaxValue = def.MaxValue
	}
	if cfg.SigFigs < 1 || cfg.SigFigs > 5 {
		cfg.SigFigs = def.SigFigs
	}
	return cfg
}

// Timing is a duration distribution aggregated across workers.
//
// Each worker records into its own HDR histogram; the aggregation pass
// swaps the worker histogram out and merges it into the canonical one, so
// a recording blocks only its own worker and only for the length of a
// histogram insert.
type Timing struct {
	name string
	cfg  TimingConfig

	mu   sync.Mutex
	hist *hdrhistogram.Histogram

	locals *tlstats.Container[*TimingLocal]
}

// NewTiming creates a timing family with default histogram bounds and
// registers it with r.
func NewTiming(r *tlstats.Registry, name string) *Timing {
	return NewTimingWithConfig(r, name, DefaultTimingConfig())
}

// NewTimingWithConfig creates a timing family with explicit histogram
// bounds and registers it with r.
func NewTimingWithConfig(r *tlstats.Registry, name string, cfg TimingConfig) *Timing {
	cfg = cfg.withDefaults()
	t := &Timing{
		name: name,
		cfg:  cfg,
		hist: hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs),
	}
	t.locals = tlstats.Register(r, func() *TimingLocal {
		return &TimingLocal{
			timing: t,
			hist:   hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs),
		}
	})
	return t
}

// Name returns the family name given at construction.
func (t *Timing) Name() string {
	return t.name
}

// Local returns the given worker's local instance, creating it on first
// access. Hot loops should keep the returned instance.
func (t *Timing) Local(id tlstats.WorkerID) *TimingLocal {
	return t.locals.Local(id)
}

// Record records a duration on behalf of the given worker.
func (t *Timing) Record(id tlstats.WorkerID, d time.Duration) {
	t.locals.Local(id).Record(d)
}

// Count returns the number of recordings merged into the canonical
// histogram so far.
func (t *Timing) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hist.TotalCount()
}

// ValueAtQuantile returns the canonical duration at the given quantile
// (e.g. 95 for p95).
func (t *Timing) ValueAtQuantile(q float64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.hist.ValueAtQuantile(q)) * time.Microsecond
}

// Snapshot contains the canonical distribution at one point in time.
type Snapshot struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}

// Snapshot returns the canonical distribution as of the last aggregation
// pass.
func (t *Timing) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Min:    time.Duration(t.hist.Min()) * time.Microsecond,
		Max:    time.Duration(t.hist.Max()) * time.Microsecond,
		Mean:   time.Duration(t.hist.Mean()) * time.Microsecond,
		StdDev: time.Duration(t.hist.StdDev()) * time.Microsecond,
		P50:    time.Duration(t.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(t.hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(t.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(t.hist.ValueAtQuantile(99)) * time.Microsecond,
		Count:  t.hist.TotalCount(),
	}
}

// merge folds one detached worker histogram into the canonical one.
func (t *Timing) merge(h *hdrhistogram.Histogram) {
	t.mu.Lock()
	t.hist.Merge(h)
	t.mu.Unlock()
}

// TimingLocal is one worker's write handle on a Timing.
type TimingLocal struct {
	timing *Timing

	// HDR histogram inserts are not thread-safe and the aggregation pass
	// reads from another goroutine, so the local histogram needs a mutex.
	// It is uncontended except for the instant the pass swaps it out.
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// Record records a duration, clamped to the configured histogram bounds.
func (l *TimingLocal) Record(d time.Duration) {
	micros := d.Microseconds()
	cfg := l.timing.cfg
	if micros < cfg.MinValue {
		micros = cfg.MinValue
	}
	if micros > cfg.MaxValue {
		micros = cfg.MaxValue
	}

	l.mu.Lock()
	l.hist.RecordValue(micros)
	l.mu.Unlock()
}

// Aggregate swaps this worker's histogram for a fresh one and merges the
// detached recordings into the canonical histogram. With no intervening
// recordings the detached histogram is empty and the merge is a no-op.
func (l *TimingLocal) Aggregate() {
	cfg := l.timing.cfg

	l.mu.Lock()
	h := l.hist
	l.hist = hdrhistogram.New(cfg.MinValue, cfg.MaxValue, cfg.SigFigs)
	l.mu.Unlock()

	if h.TotalCount() == 0 {
		return
	}
	l.timing.merge(h)
}
