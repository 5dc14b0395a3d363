package sink

import "github.com/nutsalhan87/zond"

// Multi returns a consumer that hands every batch to each of consumers
// in order, skipping nil entries. The same batch slice is passed to all
// of them, so every consumer must treat it as read-only.
func Multi(consumers ...zond.Consumer) zond.Consumer {
	fanout := make(multi, 0, len(consumers))
	for _, c := range consumers {
		if c != nil {
			fanout = append(fanout, c)
		}
	}
	return fanout
}

type multi []zond.Consumer

func (m multi) Consume(id uint64, batch []zond.Event) {
	for _, c := range m {
		c.Consume(id, batch)
	}
}
