// Package metrics exposes generation counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Metrics groups the counters updated by the workers. All methods are safe
// for concurrent use.
type Metrics struct {
	filesWritten  prometheus.Counter
	bytesWritten  prometheus.Counter
	writeErrors   prometheus.Counter
	filesSkipped  prometheus.Counter
	workersActive prometheus.Gauge
	workerBudget  prometheus.Gauge
	writeDuration prometheus.Histogram
}

// New creates the metrics and registers them with registry. A nil registry
// leaves them unregistered, which is what tests and library users without
// Prometheus want.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilefill_files_written_total",
			Help: "Total number of files successfully written",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilefill_bytes_written_total",
			Help: "Total bytes of file content successfully written",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilefill_write_errors_total",
			Help: "Total number of files that could not be written",
		}),
		filesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tilefill_files_skipped_total",
			Help: "Total number of planned files skipped because they exceeded the worker budget",
		}),
		workersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tilefill_workers_active",
			Help: "Number of workers currently generating files",
		}),
		workerBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tilefill_worker_budget_bytes",
			Help: "Volume budget of each worker in bytes",
		}),
		writeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilefill_file_write_duration_seconds",
			Help:    "Duration of file writes",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		}),
	}
	if registry != nil {
		registry.MustRegister(
			m.filesWritten,
			m.bytesWritten,
			m.writeErrors,
			m.filesSkipped,
			m.workersActive,
			m.workerBudget,
			m.writeDuration,
		)
	}
	return m
}

// FileWritten records a successful write of size bytes.
func (m *Metrics) FileWritten(size int64, elapsed time.Duration) {
	m.filesWritten.Inc()
	m.bytesWritten.Add(float64(size))
	m.writeDuration.Observe(elapsed.Seconds())
}

// WriteFailed records a file that could not be written.
func (m *Metrics) WriteFailed() {
	m.writeErrors.Inc()
}

// FileSkipped records a planned file dropped because of the budget.
func (m *Metrics) FileSkipped() {
	m.filesSkipped.Inc()
}

// WorkerStarted and WorkerDone track running workers.
func (m *Metrics) WorkerStarted() { m.workersActive.Inc() }

// WorkerDone marks the end of a worker.
func (m *Metrics) WorkerDone() { m.workersActive.Dec() }

// SetWorkerBudget publishes the per-worker budget.
func (m *Metrics) SetWorkerBudget(budget int64) {
	m.workerBudget.Set(float64(budget))
}

// Serve exposes registry on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
		return nil
	}
}
