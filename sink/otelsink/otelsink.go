package otelsink

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nutsalhan87/zond"
)

const scopeName = "github.com/nutsalhan87/zond/sink/otelsink"

// Sink turns every delivered batch into a trace span. The span covers
// the stretch from the first to the last event in the batch, and each
// event becomes a span event stamped with its original record time.
type Sink struct {
	tracer trace.Tracer
}

// New returns a Sink emitting through provider. A nil provider falls
// back to a no-op tracer.
func New(provider trace.TracerProvider) *Sink {
	if provider == nil {
		provider = noop.NewTracerProvider()
	}
	return &Sink{tracer: provider.Tracer(scopeName)}
}

func (s *Sink) Consume(id uint64, batch []zond.Event) {
	start := time.Now()
	end := start
	if len(batch) > 0 {
		start = batch[0].Time
		end = batch[len(batch)-1].Time
	}

	_, span := s.tracer.Start(context.Background(), "zond.flush",
		trace.WithTimestamp(start),
		trace.WithAttributes(
			attribute.Int64("zond.instance_id", int64(id)),
			attribute.Int("zond.batch_size", len(batch)),
		),
	)
	for _, ev := range batch {
		span.AddEvent(ev.Op.Kind(), trace.WithTimestamp(ev.Time))
	}
	span.End(trace.WithTimestamp(end))
}

var _ zond.Consumer = (*Sink)(nil)
