package zond

import "sync/atomic"

// instanceIDs hands out collector identifiers for the whole process.
var instanceIDs atomic.Uint64

func nextInstanceID() uint64 {
	return instanceIDs.Add(1) - 1
}

// Collector is the operation log of one instrumented instance. It buffers
// recorded events, consults its policy after every record, and guarantees
// exactly one final delivery when closed.
//
// A Collector belongs to a single goroutine at a time: Record, Flush and
// Close mutate the buffer and policy without locking, mirroring the
// exclusive access the instrumented container itself requires. Distinct
// collectors may share one consumer; the consumer carries the burden of
// concurrency safety.
type Collector struct {
	id       uint64
	consumer Consumer
	policy   Policy
	buf      []Event
	closed   bool
}

// NewCollector returns a collector with a process-wide unique id. A nil
// consumer is replaced by NoopConsumer and a nil policy by OnCloseOnly.
// The given policy is used as a template; the collector arms its own copy.
func NewCollector(consumer Consumer, policy Policy) *Collector {
	if consumer == nil {
		consumer = NoopConsumer{}
	}
	if policy == nil {
		policy = OnCloseOnly()
	}
	return &Collector{
		id:       nextInstanceID(),
		consumer: consumer,
		policy:   policy.rearm(),
	}
}

// ID returns the collector's process-wide unique instance identifier.
// Identifiers start at zero and never repeat within a process.
func (c *Collector) ID() uint64 { return c.id }

// Record appends op to the buffer as a timestamped event, then asks the
// policy whether to flush. After Close, Record discards the op.
func (c *Collector) Record(op Op) {
	if c.closed {
		return
	}
	c.buf = append(c.buf, newEvent(op))
	if c.policy.shouldFlush() {
		c.flush()
	}
}

// Flush hands the buffered events to the consumer immediately, without
// consulting the policy. The batch may be empty; it is delivered anyway.
// After Close, Flush does nothing.
func (c *Collector) Flush() {
	if c.closed {
		return
	}
	c.flush()
}

func (c *Collector) flush() {
	batch := c.buf
	c.buf = nil
	c.consumer.Consume(c.id, batch)
}

// Close delivers everything still buffered in one final call to the
// consumer and retires the collector. The final delivery happens even if
// the buffer is empty, so a consumer can treat it as an end-of-stream
// marker. Close is idempotent and always returns nil; the error return
// satisfies io.Closer.
func (c *Collector) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.flush()
	return nil
}
