// Package promexport exposes aggregated stat families as Prometheus
// metrics.
//
// The collector reports canonical (post-aggregation) values, so scrapes
// observe data that is up to one aggregation interval old. That is the
// same staleness contract reads of the families themselves have.
//
//	collector := promexport.NewCollector().
//	    AddCounter(requests).
//	    AddGauge(inflight).
//	    AddTiming(latency)
//	prometheus.MustRegister(collector)
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wesleyorama2/tlstats/stat"
)

type counterMetric struct {
	counter *stat.Counter
	desc    *prometheus.Desc
}

type gaugeMetric struct {
	gauge *stat.Gauge
	desc  *prometheus.Desc
}

type timingMetric struct {
	timing *stat.Timing
	desc   *prometheus.Desc
}

// Collector implements prometheus.Collector over a fixed set of stat
// families. Families are added before registration and the set is
// immutable afterwards.
type Collector struct {
	counters []counterMetric
	gauges   []gaugeMetric
	timings  []timingMetric
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddCounter exposes a counter family as a Prometheus counter. The family
// must be monotonic (no negative deltas) for the exported value to be a
// valid Prometheus counter.
func (c *Collector) AddCounter(counter *stat.Counter) *Collector {
	c.counters = append(c.counters, counterMetric{
		counter: counter,
		desc: prometheus.NewDesc(counter.Name(),
			"Aggregated worker-local counter.", nil, nil),
	})
	return c
}

// AddGauge exposes a gauge family as a Prometheus gauge (the sum of all
// worker contributions).
func (c *Collector) AddGauge(gauge *stat.Gauge) *Collector {
	c.gauges = append(c.gauges, gaugeMetric{
		gauge: gauge,
		desc: prometheus.NewDesc(gauge.Name(),
			"Aggregated worker-local gauge.", nil, nil),
	})
	return c
}

// AddTiming exposes a timing family as a Prometheus summary with p50, p90,
// p95 and p99 quantiles, in seconds.
func (c *Collector) AddTiming(timing *stat.Timing) *Collector {
	c.timings = append(c.timings, timingMetric{
		timing: timing,
		desc: prometheus.NewDesc(timing.Name()+"_seconds",
			"Aggregated worker-local duration distribution.", nil, nil),
	})
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.counters {
		ch <- m.desc
	}
	for _, m := range c.gauges {
		ch <- m.desc
	}
	for _, m := range c.timings {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.counters {
		ch <- prometheus.MustNewConstMetric(m.desc,
			prometheus.CounterValue, float64(m.counter.Value()))
	}
	for _, m := range c.gauges {
		ch <- prometheus.MustNewConstMetric(m.desc,
			prometheus.GaugeValue, float64(m.gauge.Value()))
	}
	for _, m := range c.timings {
		snap := m.timing.Snapshot()
		sum := snap.Mean.Seconds() * float64(snap.Count)
		ch <- prometheus.MustNewConstSummary(m.desc,
			uint64(snap.Count), sum, map[float64]float64{
				0.5:  snap.P50.Seconds(),
				0.9:  snap.P90.Seconds(),
				0.95: snap.P95.Seconds(),
				0.99: snap.P99.Seconds(),
			})
	}
}
