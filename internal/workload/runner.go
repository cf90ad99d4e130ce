// Package workload runs simulated high-write workloads against the tlstats
// core. It exists so the CLI has something real to aggregate: a pool of
// worker goroutines hammering counters, a gauge and a timing while the
// scheduled task merges their writes in the background.
package workload

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wesleyorama2/tlstats"
	"github.com/wesleyorama2/tlstats/export/promexport"
	"github.com/wesleyorama2/tlstats/internal/config"
	"github.com/wesleyorama2/tlstats/stat"
)

// Result summarizes a completed workload run. Values come from the final
// aggregation pass, so they account for every write the workers made.
type Result struct {
	Name      string        `json:"name"`
	Workers   int           `json:"workers"`
	Elapsed   time.Duration `json:"elapsed"`
	Requests  int64         `json:"requests"`
	Failures  int64         `json:"failures"`
	ErrorRate float64       `json:"errorRate"`
	RPS       float64       `json:"rps"`
	Inflight  int64         `json:"inflight"`
	Latency   stat.Snapshot `json:"latency"`
}

// Runner executes one workload against a fresh registry.
type Runner struct {
	cfg *config.Workload
}

// NewRunner creates a runner for the given workload.
func NewRunner(cfg *config.Workload) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes the workload until its configured duration elapses or ctx
// is cancelled, whichever comes first, and returns the aggregated result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	registry := tlstats.NewRegistry()
	requests := stat.NewCounter(registry, "sim_requests_total")
	failures := stat.NewCounter(registry, "sim_failures_total")
	inflight := stat.NewGauge(registry, "sim_inflight")
	latency := stat.NewTiming(registry, "sim_request_latency")

	task, err := registry.ScheduleAggregationWithConfig(tlstats.SchedulerConfig{
		InitialDelay: r.cfg.Interval.Std(),
		Interval:     r.cfg.Interval.Std(),
	})
	if err != nil {
		return nil, err
	}
	taskCtx, stopTask := context.WithCancel(context.Background())
	defer stopTask()
	go task.Run(taskCtx)

	if r.cfg.Listen != "" {
		server := metricsServer(r.cfg.Listen, requests, failures, inflight, latency)
		go server.ListenAndServe()
		defer server.Close()
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Duration.Std())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r.runWorker(runCtx, seed, requests, failures, inflight, latency)
		}(int64(i + 1))
	}
	wg.Wait()
	elapsed := time.Since(start)

	// Stop the periodic task, then run one last pass so the tail of
	// writes from the workers is reflected in the result.
	stopTask()
	registry.AggregateAll()

	total := requests.Value()
	failed := failures.Value()
	result := &Result{
		Name:     r.cfg.Name,
		Workers:  r.cfg.Workers,
		Elapsed:  elapsed,
		Requests: total,
		Failures: failed,
		Inflight: inflight.Value(),
		Latency:  latency.Snapshot(),
	}
	if total > 0 {
		result.ErrorRate = float64(failed) / float64(total)
	}
	if elapsed > 0 {
		result.RPS = float64(total) / elapsed.Seconds()
	}
	return result, ctx.Err()
}

// runWorker is one writer goroutine: it owns a WorkerID and cached local
// handles, and loops recording synthetic requests until the run ends.
func (r *Runner) runWorker(ctx context.Context, seed int64,
	requests, failures *stat.Counter, inflight *stat.Gauge, latency *stat.Timing) {

	id := tlstats.NextWorkerID()
	reqs := requests.Local(id)
	fails := failures.Local(id)
	infl := inflight.Local(id)
	lat := latency.Local(id)

	rng := rand.New(rand.NewSource(seed))

	for ctx.Err() == nil {
		infl.Add(1)

		// Synthetic latency: 1ms floor with a long exponential tail.
		d := time.Millisecond + time.Duration(rng.ExpFloat64()*float64(4*time.Millisecond))
		lat.Record(d)
		reqs.Incr()
		if rng.Float64() < r.cfg.FailureRate {
			fails.Incr()
		}

		infl.Add(-1)

		// Pace the loop so a demo run doesn't peg every core.
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(rng.Intn(int(time.Millisecond))) + 100*time.Microsecond):
		}
	}
}

// metricsServer exposes the run's stat families on /metrics.
func metricsServer(addr string, requests, failures *stat.Counter, inflight *stat.Gauge, latency *stat.Timing) *http.Server {
	collector := promexport.NewCollector().
		AddCounter(requests).
		AddCounter(failures).
		AddGauge(inflight).
		AddTiming(latency)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux}
}
