package zond

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNonPositiveThreshold is returned by CountThreshold for a
	// threshold below one.
	ErrNonPositiveThreshold = errors.New("zond: count threshold must be positive")

	// ErrNonPositiveInterval is returned by Debounced for an interval of
	// zero or less.
	ErrNonPositiveInterval = errors.New("zond: debounce interval must be positive")
)

// Policy decides, after each recorded event, whether a collector should
// hand its buffer to the consumer now. The final flush performed by
// Collector.Close is unconditional and never consults the policy.
//
// A Policy value handed to NewCollector acts as a template: the collector
// arms a private copy with counters and timers reset, so the same value
// may be reused for any number of collectors without sharing progress
// between them.
type Policy interface {
	// shouldFlush is consulted once per recorded event, after the event
	// has been buffered. It advances the policy's internal progress and
	// resets it whenever it reports true.
	shouldFlush() bool

	// rearm returns a copy of the policy with its progress reset.
	// Thresholds and intervals carry over.
	rearm() Policy
}

// OnCloseOnly returns the policy that never flushes on record. Buffered
// events are delivered only by the final flush at close time.
func OnCloseOnly() Policy { return onCloseOnly{} }

type onCloseOnly struct{}

func (onCloseOnly) shouldFlush() bool { return false }
func (onCloseOnly) rearm() Policy     { return onCloseOnly{} }

// CountThreshold returns a policy that flushes on every max-th recorded
// event: the event that brings the count since the previous flush to max
// is included in the batch it triggers. max must be positive.
func CountThreshold(max int) (Policy, error) {
	if max < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrNonPositiveThreshold, max)
	}
	return &countPolicy{max: max}, nil
}

type countPolicy struct {
	max     int
	current int
}

func (p *countPolicy) shouldFlush() bool {
	if p.current == p.max-1 {
		p.current = 0
		return true
	}
	p.current++
	return false
}

func (p *countPolicy) rearm() Policy { return &countPolicy{max: p.max} }

// Debounced returns a policy that flushes on the first event recorded
// strictly more than d after the previous flush. The first window opens
// when the policy is armed by NewCollector; an event landing exactly on
// the boundary does not flush. d must be positive.
func Debounced(d time.Duration) (Policy, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w, got %v", ErrNonPositiveInterval, d)
	}
	return &debouncePolicy{interval: d, last: time.Now(), now: time.Now}, nil
}

type debouncePolicy struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time // swapped in tests
}

func (p *debouncePolicy) shouldFlush() bool {
	now := p.now()
	if now.Sub(p.last) > p.interval {
		p.last = now
		return true
	}
	return false
}

func (p *debouncePolicy) rearm() Policy {
	return &debouncePolicy{interval: p.interval, last: p.now(), now: p.now}
}

var (
	_ Policy = onCloseOnly{}
	_ Policy = (*countPolicy)(nil)
	_ Policy = (*debouncePolicy)(nil)
)
