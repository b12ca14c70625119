// Package clock provides the timer port used by the notice scheduler and
// two implementations: a deterministic virtual clock for tests and a
// real-time event loop that serializes every callback onto one goroutine.
package clock

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Clock schedules delayed callbacks. Cancel must be a no-op for unknown,
// fired, or already cancelled handles.
type Clock interface {
	Now() time.Time
	Schedule(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}
