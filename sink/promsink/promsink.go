package promsink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nutsalhan87/zond"
)

// Sink exposes flush activity as Prometheus metrics. It keeps no
// per-instance state, so one Sink can serve every collector in the
// process.
type Sink struct {
	events       *prometheus.CounterVec
	batches      prometheus.Counter
	emptyBatches prometheus.Counter
	batchSize    prometheus.Histogram
}

// New returns a Sink with its metrics registered on registerer. A nil
// registerer falls back to prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Sink {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Sink{
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zond_events_total",
				Help: "Total number of delivered events, by op kind",
			},
			[]string{"op"},
		),
		batches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "zond_batches_total",
				Help: "Total number of delivered batches",
			},
		),
		emptyBatches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "zond_empty_batches_total",
				Help: "Total number of delivered batches carrying no events",
			},
		),
		batchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zond_batch_size_events",
				Help:    "Number of events per delivered batch",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
			},
		),
	}
}

func (s *Sink) Consume(_ uint64, batch []zond.Event) {
	s.batches.Inc()
	s.batchSize.Observe(float64(len(batch)))
	if len(batch) == 0 {
		s.emptyBatches.Inc()
		return
	}
	for _, ev := range batch {
		s.events.WithLabelValues(ev.Op.Kind()).Inc()
	}
}

var _ zond.Consumer = (*Sink)(nil)
