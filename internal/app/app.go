package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nutsalhan87/zond"
	"github.com/nutsalhan87/zond/sink"
	"github.com/nutsalhan87/zond/sink/boltsink"
	"github.com/nutsalhan87/zond/sink/promsink"
)

// Application executes the workload a config file describes: a pool of
// workers, each owning one instrumented vector, with every flushed batch
// fanned out to the configured sinks.
type Application struct {
	logger *zap.Logger
}

// New returns an Application logging through logger. A nil logger falls
// back to zap.NewNop.
func New(logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{logger: logger}
}

// Validate loads the config at path and builds the policy from it,
// reporting the first problem found without running anything.
func (a *Application) Validate(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	_, err = BuildPolicy(cfg.Policy)
	return err
}

// Run executes one workload run and blocks until every worker has
// closed its vector and every sink is drained and closed.
func (a *Application) Run(ctx context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	policy, err := BuildPolicy(cfg.Policy)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID))

	consumers, closers, registry, err := buildSinks(cfg, runID, logger)
	if err != nil {
		return err
	}
	defer closeAll(closers, logger)

	consumer := sink.Multi(consumers...)

	ctx, cancel := context.WithCancel(ctx)
	serverDone := make(chan struct{})
	if cfg.Metrics.Enabled {
		go func() {
			defer close(serverDone)
			opts := MetricsServerOptions{
				Addr:     cfg.Metrics.ListenAddress,
				Registry: registry,
				RunID:    runID,
			}
			if err := StartMetricsServer(ctx, opts, logger); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	} else {
		close(serverDone)
	}
	defer func() {
		cancel()
		<-serverDone
	}()

	logger.Info("run starting",
		zap.String("policy", string(cfg.Policy.Kind)),
		zap.Int("workers", cfg.Workload.Workers),
		zap.Int("ops_per_worker", cfg.Workload.OpsPerWorker),
		zap.Int64("seed", cfg.Workload.Seed),
	)
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < cfg.Workload.Workers; worker++ {
		worker := worker // per-iteration copy; the go directive predates Go 1.22 loop scoping
		g.Go(func() error {
			return runWorker(gctx, worker, cfg.Workload, consumer, policy, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("run finished", zap.Duration("elapsed", time.Since(started)))
	return nil
}

// buildSinks assembles the consumers the config asks for. The returned
// registry is non-nil only when metrics are enabled.
func buildSinks(cfg Config, runID string, logger *zap.Logger) ([]zond.Consumer, []io.Closer, *prometheus.Registry, error) {
	var consumers []zond.Consumer
	var closers []io.Closer

	if cfg.Sinks.Stdout {
		consumers = append(consumers, sink.NewWriter(os.Stdout))
	}
	if cfg.Sinks.LogBatches {
		consumers = append(consumers, sink.NewLogger(logger.Named("batches")))
	}
	if cfg.Sinks.JSONLPath != "" {
		writer, err := sink.OpenFile(cfg.Sinks.JSONLPath)
		if err != nil {
			closeAll(closers, logger)
			return nil, nil, nil, fmt.Errorf("open jsonl sink: %w", err)
		}
		consumers = append(consumers, writer)
		closers = append(closers, writer)
	}
	if cfg.Sinks.BoltPath != "" {
		archive, err := boltsink.Open(cfg.Sinks.BoltPath,
			boltsink.WithRunID(runID),
			boltsink.WithLogger(logger.Named("boltsink")),
		)
		if err != nil {
			closeAll(closers, logger)
			return nil, nil, nil, fmt.Errorf("open bolt sink: %w", err)
		}
		consumers = append(consumers, archive)
		closers = append(closers, archive)
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		consumers = append(consumers, promsink.New(registry))
	}
	return consumers, closers, registry, nil
}

func closeAll(closers []io.Closer, logger *zap.Logger) {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			logger.Warn("close sink failed", zap.Error(err))
		}
	}
}
