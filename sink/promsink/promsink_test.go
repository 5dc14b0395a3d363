package promsink

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nutsalhan87/zond"
)

type stubOp string

func (o stubOp) Kind() string { return string(o) }

func TestSinkCountsEventsByKind(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := New(registry)

	s.Consume(1, []zond.Event{
		{Op: stubOp("push")},
		{Op: stubOp("push")},
		{Op: stubOp("pop")},
	})
	s.Consume(2, []zond.Event{{Op: stubOp("push")}})

	expected := `
		# HELP zond_events_total Total number of delivered events, by op kind
		# TYPE zond_events_total counter
		zond_events_total{op="pop"} 1
		zond_events_total{op="push"} 3
	`
	require.NoError(t, testutil.CollectAndCompare(s.events, strings.NewReader(expected)))
	require.Equal(t, float64(2), testutil.ToFloat64(s.batches))
	require.Equal(t, float64(0), testutil.ToFloat64(s.emptyBatches))
}

func TestSinkCountsEmptyBatches(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := New(registry)

	collector := zond.NewCollector(s, nil)
	collector.Record(stubOp("push"))
	require.NoError(t, collector.Close())
	// a second collector that dies with nothing buffered
	require.NoError(t, zond.NewCollector(s, nil).Close())

	require.Equal(t, float64(2), testutil.ToFloat64(s.batches))
	require.Equal(t, float64(1), testutil.ToFloat64(s.emptyBatches))
	require.Equal(t, float64(1), testutil.ToFloat64(s.events.WithLabelValues("push")))
}

func TestSinkObservesBatchSizes(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := New(registry)

	s.Consume(1, []zond.Event{{Op: stubOp("a")}, {Op: stubOp("b")}})
	s.Consume(1, nil)

	count := testutil.CollectAndCount(s.batchSize, "zond_batch_size_events")
	require.Equal(t, 1, count)
}
