package otelsink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nutsalhan87/zond"
)

type stubOp string

func (o stubOp) Kind() string { return string(o) }

type captureSpan struct {
	noop.Span
	name   string
	config trace.SpanConfig
	events []string
	times  []time.Time
	ended  bool
}

func (s *captureSpan) AddEvent(name string, opts ...trace.EventOption) {
	s.events = append(s.events, name)
	cfg := trace.NewEventConfig(opts...)
	s.times = append(s.times, cfg.Timestamp())
}

func (s *captureSpan) End(...trace.SpanEndOption) {
	s.ended = true
}

type captureTracer struct {
	noop.Tracer
	spans []*captureSpan
}

func (t *captureTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	span := &captureSpan{name: name, config: trace.NewSpanStartConfig(opts...)}
	t.spans = append(t.spans, span)
	return ctx, span
}

type captureProvider struct {
	noop.TracerProvider
	tracer *captureTracer
}

func (p *captureProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func attributeValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSinkEmitsOneSpanPerBatch(t *testing.T) {
	tracer := &captureTracer{}
	s := New(&captureProvider{tracer: tracer})

	first := time.Now().Add(-time.Second)
	second := time.Now()
	s.Consume(7, []zond.Event{
		{Time: first, Op: stubOp("push")},
		{Time: second, Op: stubOp("pop")},
	})

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	require.Equal(t, "zond.flush", span.name)
	require.True(t, span.ended)
	require.Equal(t, first, span.config.Timestamp())

	require.Equal(t, []string{"push", "pop"}, span.events)
	require.Equal(t, []time.Time{first, second}, span.times)

	value, ok := attributeValue(span.config.Attributes(), "zond.instance_id")
	require.True(t, ok)
	require.Equal(t, int64(7), value.AsInt64())

	value, ok = attributeValue(span.config.Attributes(), "zond.batch_size")
	require.True(t, ok)
	require.Equal(t, int64(2), value.AsInt64())
}

func TestSinkSpansEmptyBatches(t *testing.T) {
	tracer := &captureTracer{}
	s := New(&captureProvider{tracer: tracer})

	s.Consume(3, nil)

	require.Len(t, tracer.spans, 1)
	span := tracer.spans[0]
	require.True(t, span.ended)
	require.Empty(t, span.events)

	value, ok := attributeValue(span.config.Attributes(), "zond.batch_size")
	require.True(t, ok)
	require.Equal(t, int64(0), value.AsInt64())
}

func TestNilProviderFallsBackToNoop(t *testing.T) {
	s := New(nil)
	s.Consume(1, []zond.Event{{Time: time.Now(), Op: stubOp("push")}})
}
