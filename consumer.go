package zond

// Consumer receives flushed event batches.
//
// Consume is handed the producing collector's instance id and the events
// buffered since the previous flush, in recording order. The batch may be
// empty: every collector ends with exactly one final call at close time
// regardless of whether anything is pending. Ownership of the batch slice
// passes to the consumer; the collector never touches it again.
//
// A single consumer value may be shared by many collectors, and those
// collectors may live on different goroutines, so implementations must be
// safe for concurrent use.
type Consumer interface {
	Consume(id uint64, batch []Event)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(id uint64, batch []Event)

func (f ConsumerFunc) Consume(id uint64, batch []Event) { f(id, batch) }

// NoopConsumer discards every batch. It is the consumer used when a
// collector is constructed with a nil one.
type NoopConsumer struct{}

func (NoopConsumer) Consume(uint64, []Event) {}

var (
	_ Consumer = ConsumerFunc(nil)
	_ Consumer = NoopConsumer{}
)
