package tlstats

import "errors"

// ErrAlreadyScheduled matches any AlreadyScheduledError via errors.Is.
var ErrAlreadyScheduled = errors.New("stats aggregation was already scheduled")

// AlreadyScheduledError reports that periodic aggregation was requested
// more than once for the same registry. It carries the canonical task so
// the caller is not left without a handle, but running it a second time is
// the owner's job, not this caller's.
type AlreadyScheduledError struct {
	// Task is the one task this registry will ever build.
	Task *Task
}

// Error implements the error interface.
func (e *AlreadyScheduledError) Error() string {
	return ErrAlreadyScheduled.Error()
}

// Unwrap lets errors.Is(err, ErrAlreadyScheduled) succeed.
func (e *AlreadyScheduledError) Unwrap() error {
	return ErrAlreadyScheduled
}
