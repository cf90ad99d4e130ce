// Package stat provides the concrete stat managers that plug into the
// tlstats aggregation core: counters, gauges and HDR-histogram timings.
//
// Every manager follows the same split: a family object owns the canonical
// aggregated value, and each worker goroutine writes to its own local
// instance obtained with Local. The aggregation pass folds local writes
// into the canonical value, so reads of the family are up to one
// aggregation interval stale.
//
// # Basic Usage
//
//	registry := tlstats.NewRegistry()
//
//	requests := stat.NewCounter(registry, "requests_total")
//	inflight := stat.NewGauge(registry, "inflight")
//	latency := stat.NewTiming(registry, "request_latency")
//
//	// In each worker goroutine:
//	id := tlstats.NextWorkerID()
//	reqs := requests.Local(id)
//	lat := latency.Local(id)
//	for {
//	    start := time.Now()
//	    // ... handle one request ...
//	    reqs.Incr()
//	    lat.Record(time.Since(start))
//	}
//
//	// Anywhere, after an aggregation pass:
//	fmt.Println(requests.Value(), latency.Snapshot().P95)
package stat
