package tlstats

import (
	"sync"
	"sync/atomic"
)

// WorkerID identifies the goroutine (or logical worker) that owns a set of
// local stat instances. IDs are allocated by NextWorkerID and are never
// reused within a process.
type WorkerID int64

var workerIDs atomic.Int64

// NextWorkerID returns a process-unique WorkerID.
//
// Callers typically allocate one ID per worker goroutine at spawn time and
// use it for every stat write that goroutine makes.
func NextWorkerID() WorkerID {
	return WorkerID(workerIDs.Add(1))
}

// Aggregatable is the capability a stat instance must expose to participate
// in aggregation.
//
// Aggregate merges the instance's pending local writes into its canonical
// state. It must not fail, and calling it twice with no intervening writes
// must leave the canonical state unchanged after the second call.
type Aggregatable interface {
	Aggregate()
}

// Container holds the per-worker instances of one stat family.
//
// Instances are created lazily on a worker's first access and live for the
// rest of the process; there is no eviction. Each worker writes only to its
// own instance, so writes never contend with other workers. ForEach allows
// a cross-worker visitor (the aggregation pass) to reach every live
// instance without blocking writers on other instances.
type Container[T Aggregatable] struct {
	newLocal func() T
	locals   sync.Map // WorkerID -> T
}

func newContainer[T Aggregatable](newLocal func() T) *Container[T] {
	return &Container[T]{newLocal: newLocal}
}

// Local returns the calling worker's instance, creating it on first access.
//
// The fast path is a single lock-free map load. Hot loops should call Local
// once and keep the returned instance rather than looking it up per write.
func (c *Container[T]) Local(id WorkerID) T {
	if v, ok := c.locals.Load(id); ok {
		return v.(T)
	}
	// Two workers cannot race on the same ID, but first accesses for
	// different IDs can interleave; LoadOrStore keeps exactly one instance
	// per ID either way.
	v, _ := c.locals.LoadOrStore(id, c.newLocal())
	return v.(T)
}

// ForEach visits every currently-live per-worker instance.
//
// Instances created while the visit is in progress may or may not be
// visited; they are guaranteed to be visited by the next full pass.
func (c *Container[T]) ForEach(fn func(T)) {
	c.locals.Range(func(_, v any) bool {
		fn(v.(T))
		return true
	})
}

// Len returns the number of per-worker instances currently live.
func (c *Container[T]) Len() int {
	n := 0
	c.locals.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// aggregateLocals runs one aggregation pass over this container. Called by
// the registry with its lock held.
func (c *Container[T]) aggregateLocals() {
	c.ForEach(func(local T) {
		local.Aggregate()
	})
}
