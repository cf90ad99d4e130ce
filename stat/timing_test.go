package stat

import (
	"testing"
	"time"

	"github.com/wesleyorama2/tlstats"
)

func TestTiming_RecordAndSnapshot(t *testing.T) {
	r := tlstats.NewRegistry()
	tm := NewTiming(r, "request_latency")
	local := tm.Local(tlstats.NextWorkerID())

	// Known distribution: 10ms..100ms in 10ms steps.
	for i := 1; i <= 10; i++ {
		local.Record(time.Duration(i) * 10 * time.Millisecond)
	}

	if got := tm.Count(); got != 0 {
		t.Errorf("Count() = %d before aggregation, want 0", got)
	}

	r.AggregateAll()

	snap := tm.Snapshot()
	if snap.Count != 10 {
		t.Fatalf("Count = %d, want 10", snap.Count)
	}

	// P50 should be around 50ms (with some tolerance for HDR binning).
	if snap.P50 < 40*time.Millisecond || snap.P50 > 60*time.Millisecond {
		t.Errorf("P50 = %v, want ~50ms (±10ms)", snap.P50)
	}
	// P99 should be close to 100ms.
	if snap.P99 < 90*time.Millisecond || snap.P99 > 110*time.Millisecond {
		t.Errorf("P99 = %v, want ~100ms (±10ms)", snap.P99)
	}
	if snap.Min > snap.Max {
		t.Errorf("Min = %v > Max = %v", snap.Min, snap.Max)
	}
}

func TestTiming_MergesWorkers(t *testing.T) {
	r := tlstats.NewRegistry()
	tm := NewTiming(r, "request_latency")

	a := tm.Local(tlstats.NextWorkerID())
	b := tm.Local(tlstats.NextWorkerID())

	for i := 0; i < 50; i++ {
		a.Record(10 * time.Millisecond)
		b.Record(20 * time.Millisecond)
	}

	r.AggregateAll()

	if got := tm.Count(); got != 100 {
		t.Errorf("Count() = %d, want 100", got)
	}
}

func TestTiming_AggregateIdempotent(t *testing.T) {
	r := tlstats.NewRegistry()
	tm := NewTiming(r, "request_latency")

	tm.Record(tlstats.NextWorkerID(), 25*time.Millisecond)

	r.AggregateAll()
	r.AggregateAll()

	if got := tm.Count(); got != 1 {
		t.Errorf("Count() = %d after back-to-back passes, want 1", got)
	}
}

func TestTiming_ClampsOutOfRange(t *testing.T) {
	r := tlstats.NewRegistry()
	tm := NewTimingWithConfig(r, "request_latency", TimingConfig{
		MinValue: 1,
		MaxValue: 1000000, // 1s in microseconds
		SigFigs:  3,
	})
	local := tm.Local(tlstats.NextWorkerID())

	local.Record(0)             // below minimum
	local.Record(2 * time.Hour) // above maximum
	r.AggregateAll()

	if got := tm.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2 (out-of-range values clamped, not dropped)", got)
	}
	if max := tm.ValueAtQuantile(100); max > time.Second+time.Millisecond {
		t.Errorf("max recorded value = %v, want clamped to ~1s", max)
	}
}

func TestTimingConfig_Defaults(t *testing.T) {
	cfg := TimingConfig{}.withDefaults()
	def := DefaultTimingConfig()

	if cfg != def {
		t.Errorf("withDefaults() = %+v, want %+v", cfg, def)
	}
}
