// Package zond records the operations performed on instrumented
// containers and delivers them, in batches, to a consumer chosen by the
// caller. A flush policy decides when a recorded batch is handed over;
// closing a collector always delivers whatever remains.
package zond

import "time"

// Op describes a single recorded operation. Implementations are small
// value types holding owned copies of the arguments the operation was
// called with; Kind returns a stable snake_case name for the operation.
//
// Ops describe calls, not outcomes: an operation that later panics or
// fails still leaves its Op in the log.
type Op interface {
	Kind() string
}

// Event is one recorded operation together with the time it happened.
// The timestamp is taken with time.Now at record time, so it carries a
// monotonic clock reading and survives wall-clock adjustments.
type Event struct {
	Time time.Time
	Op   Op
}

func newEvent(op Op) Event {
	return Event{Time: time.Now(), Op: op}
}
