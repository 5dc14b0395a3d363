package sink

import (
	"slices"
	"sync"

	"github.com/nutsalhan87/zond"
)

// Batch is one delivered flush: the producing collector's id and the
// events it carried.
type Batch struct {
	Instance uint64
	Events   []zond.Event
}

// Recorder keeps every delivered batch in memory, in delivery order. It
// is safe for collectors on many goroutines and is the consumer of
// choice for tests and short-lived inspection.
type Recorder struct {
	mu      sync.Mutex
	batches []Batch
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Consume(id uint64, batch []zond.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, Batch{Instance: id, Events: batch})
}

// Batches returns a copy of every batch received so far.
func (r *Recorder) Batches() []Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

// Instance returns the batches delivered for one collector id, in
// delivery order.
func (r *Recorder) Instance(id uint64) []Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Batch
	for _, b := range r.batches {
		if b.Instance == id {
			out = append(out, b)
		}
	}
	return out
}

// Events returns the concatenation of every batch delivered for id: the
// instance's recorded history, in order.
func (r *Recorder) Events(id uint64) []zond.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []zond.Event
	for _, b := range r.batches {
		if b.Instance == id {
			out = append(out, b.Events...)
		}
	}
	return out
}

var _ zond.Consumer = (*Recorder)(nil)
