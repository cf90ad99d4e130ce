// Package tlstats provides worker-local stats with periodic background
// aggregation.
//
// The package is built for workloads where stat writes vastly outnumber
// reads. Writes touch only the calling worker's own instance of a stat, so
// they never contend with other workers or with readers. Reads see a merged
// view that is refreshed by an aggregation pass, typically driven once per
// second by a scheduled task — a recent write may not be visible until the
// next pass runs.
//
// # Basic Usage
//
// Create a registry once at startup, register stat containers against it,
// and hand the aggregation task to a goroutine:
//
//	registry := tlstats.NewRegistry()
//
//	requests := stat.NewCounter(registry, "requests_total")
//
//	task, err := registry.ScheduleAggregation()
//	if err != nil {
//	    // Something already scheduled aggregation; the returned task is
//	    // the same one that first caller received.
//	}
//	go task.Run(ctx)
//
//	// On each worker goroutine:
//	id := tlstats.NextWorkerID()
//	local := requests.Local(id)
//	for {
//	    local.Incr()
//	}
//
// A process that only ever wants one registry can use the package-level
// Default registry and the top-level Register, AggregateAll and
// ScheduleAggregation helpers instead.
//
// # Worker Identity
//
// Go offers no goroutine-local storage, so ownership is explicit: each
// writer goroutine obtains a WorkerID from NextWorkerID and uses it for all
// of its writes. A container lazily creates one instance per WorkerID on
// first access and never removes it.
//
// # Consistency Model
//
// A write that happens before an AggregateAll call is reflected in the
// merged view after that call returns. Writes that race with an in-progress
// pass may land in that pass or the next one — never lost, at most one
// interval late. Two consecutive passes with no intervening writes leave
// the merged view unchanged.
//
// # Subpackages
//
//   - stat: concrete stat managers (Counter, Gauge, Timing)
//   - export/promexport: Prometheus collector over aggregated values
package tlstats
