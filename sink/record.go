package sink

import (
	"encoding/json"
	"time"

	"github.com/nutsalhan87/zond"
)

// BatchRecord is the serialized form of one delivered batch. It is the
// wire format shared by the sinks that persist batches: Writer emits one
// BatchRecord per line and boltsink stores one per key.
type BatchRecord struct {
	Instance  uint64        `json:"instance"`
	FlushedAt time.Time     `json:"flushed_at"`
	Events    []EventRecord `json:"events"`
}

// EventRecord is the serialized form of one event: when it was recorded,
// the op kind, and the op's payload fields as raw JSON.
type EventRecord struct {
	Time time.Time       `json:"time"`
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewBatchRecord converts a delivered batch into its serialized form,
// stamping it with the current time. Payloads without fields are
// omitted, and a payload that fails to marshal is dropped; the op kind
// is preserved in both cases.
func NewBatchRecord(id uint64, batch []zond.Event) BatchRecord {
	record := BatchRecord{
		Instance:  id,
		FlushedAt: time.Now(),
		Events:    make([]EventRecord, len(batch)),
	}
	for i, ev := range batch {
		data, err := json.Marshal(ev.Op)
		if err != nil || string(data) == "{}" {
			data = nil
		}
		record.Events[i] = EventRecord{Time: ev.Time, Op: ev.Op.Kind(), Data: data}
	}
	return record
}
