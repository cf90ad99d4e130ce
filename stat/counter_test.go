package stat

import (
	"sync"
	"testing"

	"github.com/wesleyorama2/tlstats"
)

func TestCounter_AggregatesAcrossWorkers(t *testing.T) {
	r := tlstats.NewRegistry()
	c := NewCounter(r, "requests_total")

	workerA := tlstats.NextWorkerID()
	workerB := tlstats.NextWorkerID()

	c.Add(workerA, 5)
	if got := c.Value(); got != 0 {
		t.Errorf("Value() = %d before aggregation, want 0", got)
	}

	r.AggregateAll()
	if got := c.Value(); got != 5 {
		t.Errorf("Value() = %d after first pass, want 5", got)
	}

	c.Add(workerB, 3)
	r.AggregateAll()
	if got := c.Value(); got != 8 {
		t.Errorf("Value() = %d after second pass, want 8", got)
	}
}

func TestCounter_AggregateIdempotent(t *testing.T) {
	r := tlstats.NewRegistry()
	c := NewCounter(r, "requests_total")

	c.Add(tlstats.NextWorkerID(), 7)

	r.AggregateAll()
	r.AggregateAll()

	if got := c.Value(); got != 7 {
		t.Errorf("Value() = %d after back-to-back passes, want 7", got)
	}
}

func TestCounter_CapturesOnlyPriorWrites(t *testing.T) {
	r := tlstats.NewRegistry()
	c := NewCounter(r, "requests_total")
	local := c.Local(tlstats.NextWorkerID())

	for i := 0; i < 10; i++ {
		local.Incr()
	}
	r.AggregateAll()

	if got := c.Value(); got != 10 {
		t.Errorf("Value() = %d, want 10", got)
	}

	// Writes after the pass stay pending until the next one.
	local.Add(4)
	if got := c.Value(); got != 10 {
		t.Errorf("Value() = %d before next pass, want 10", got)
	}
	r.AggregateAll()
	if got := c.Value(); got != 14 {
		t.Errorf("Value() = %d after next pass, want 14", got)
	}
}

func TestCounter_ConcurrentWriters(t *testing.T) {
	const (
		workers   = 16
		perWorker = 1000
	)

	r := tlstats.NewRegistry()
	c := NewCounter(r, "requests_total")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := c.Local(tlstats.NextWorkerID())
			for j := 0; j < perWorker; j++ {
				local.Incr()
			}
		}()
	}
	wg.Wait()

	r.AggregateAll()

	if got, want := c.Value(), int64(workers*perWorker); got != want {
		t.Errorf("Value() = %d, want %d", got, want)
	}
}

func TestCounter_Name(t *testing.T) {
	r := tlstats.NewRegistry()
	c := NewCounter(r, "requests_total")
	if c.Name() != "requests_total" {
		t.Errorf("Name() = %q, want %q", c.Name(), "requests_total")
	}
}
