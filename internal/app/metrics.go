package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsServerOptions configures the run's observability endpoint.
type MetricsServerOptions struct {
	Addr     string
	Registry prometheus.Gatherer
	RunID    string
}

// StartMetricsServer serves /metrics and /runinfo until ctx is
// canceled, then shuts down gracefully. It blocks for the lifetime of
// the server.
func StartMetricsServer(ctx context.Context, opts MetricsServerOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := opts.Addr
	if addr == "" {
		addr = DefaultMetricsListenAddr
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/runinfo", runInfoHandler(opts.RunID, time.Now()))

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("metrics server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
			return err
		}
		logger.Info("metrics server stopped")
		return nil
	}
}

func runInfoHandler(runID string, started time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"run_id":         runID,
			"version":        Version,
			"uptime_seconds": int64(time.Since(started).Seconds()),
		})
	})
}
