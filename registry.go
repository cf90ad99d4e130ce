package tlstats

import (
	"sync"
	"sync/atomic"
)

// aggregator is the registry's view of a container, erasing the element
// type so containers of different stat types can share one list.
type aggregator interface {
	aggregateLocals()
}

// Registry tracks every stat container in one aggregation domain and owns
// the periodic aggregation task for that domain.
//
// A process normally constructs a single Registry at startup (or uses
// Default) and passes it to every stat constructor. Tests create their own
// throwaway registries, which keeps them independent without any global
// reset.
//
// The container list is append-only: registrations are never removed, so
// the list only grows. One mutex guards the list and is held for the whole
// of both Register and AggregateAll. Registration is rare (setup time), so
// holding the lock across a full aggregation pass delays at most a
// concurrent registration — never the write hot path.
type Registry struct {
	mu         sync.Mutex
	containers []aggregator

	scheduled atomic.Bool
	taskOnce  sync.Once
	task      *Task
}

// NewRegistry returns an empty registry with nothing scheduled.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register creates a new container in r and returns it.
//
// newLocal constructs one per-worker instance; it is invoked lazily on each
// worker's first access to the container. Register cannot fail and is safe
// to call from multiple goroutines, though callers are expected to register
// once per stat family at initialization, not per write.
func Register[T Aggregatable](r *Registry, newLocal func() T) *Container[T] {
	c := newContainer(newLocal)
	r.mu.Lock()
	r.containers = append(r.containers, c)
	r.mu.Unlock()
	return c
}

// AggregateAll runs one aggregation pass over every registered container,
// in registration order.
//
// The pass is synchronous and sequential; when it returns, every write that
// happened before the call is reflected in canonical values. Writes racing
// the pass may be picked up now or by the next pass.
//
// A panic out of an Aggregate implementation propagates to the caller with
// the registry lock released; the aggregation contract is that Aggregate
// is infallible, so such a panic is a bug in the stat type.
func (r *Registry) AggregateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.containers {
		c.aggregateLocals()
	}
}

// Size returns the number of registered containers.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide default registry used by the top-level
// helper functions.
func Default() *Registry {
	return defaultRegistry
}

// AggregateAll runs one aggregation pass over the default registry.
func AggregateAll() {
	defaultRegistry.AggregateAll()
}

// ScheduleAggregation schedules periodic aggregation of the default
// registry. See Registry.ScheduleAggregation.
func ScheduleAggregation() (*Task, error) {
	return defaultRegistry.ScheduleAggregation()
}
