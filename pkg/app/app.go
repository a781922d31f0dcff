// Package app wires configuration, storage, hooks and metrics around the
// generator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/generator"
	"github.com/sgaunet/tilefill/pkg/metrics"
	"github.com/sgaunet/tilefill/pkg/storage"
	"github.com/sgaunet/tilefill/pkg/storage/s3storage"
)

var (
	// ErrPreFillHook is returned when the pre-fill hook fails. Nothing is generated.
	ErrPreFillHook = errors.New("pre-fill hook failed")
	// ErrPostFillHook is returned when the post-fill hook fails after generation.
	ErrPostFillHook = errors.New("post-fill hook failed")
)

// App runs one fill operation.
type App struct {
	cfg            *config.Config
	storageFactory generator.StorageFactory
	registry       *prometheus.Registry
	log            Logger
}

// Logger is the logging interface used by the application.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

// NewApp validates cfg and selects the storage: S3 when a bucket and a
// region are configured, the local output directory otherwise.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app := &App{
		cfg:            cfg,
		storageFactory: generator.LocalStorageFactory,
		registry:       prometheus.NewRegistry(),
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if cfg.IsS3ConfigValid() {
		app.storageFactory = app.s3StorageFactory
	}
	return app, nil
}

// SetLogger sets the logger of the application and of the generator.
func (a *App) SetLogger(l Logger) {
	a.log = l
}

// SetStorageFactory replaces the storage selected from the configuration.
func (a *App) SetStorageFactory(f generator.StorageFactory) {
	a.storageFactory = f
}

// Registry returns the Prometheus registry holding the run metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Target is the directory, or bucket prefix, files are written to.
func (a *App) Target() string {
	if a.cfg.IsS3ConfigValid() {
		return a.cfg.S3cfg.BucketPath
	}
	return a.cfg.OutputDir
}

// Run executes the pre-fill hook, generates the configured workload and
// executes the post-fill hook. When a metrics address is configured the
// metrics are served for the duration of the run.
func (a *App) Run(ctx context.Context) (*generator.Result, error) {
	if a.cfg.MetricsAddr != "" {
		metricsCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := metrics.Serve(metricsCtx, a.cfg.MetricsAddr, a.registry); err != nil {
				a.log.Error("metrics server stopped", "addr", a.cfg.MetricsAddr, "error", err)
			}
		}()
		a.log.Info("serving metrics", "addr", a.cfg.MetricsAddr)
	}

	if a.cfg.Hooks.HasPreFill() {
		a.log.Info("Run (call prefill hook)", "cmd", a.cfg.Hooks.GeneratePreFillCmd())
		if err := a.cfg.Hooks.ExecutePreFill(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPreFillHook, err)
		}
	}

	gen, err := generator.New(a.cfg,
		generator.WithLogger(a.log),
		generator.WithMetrics(metrics.New(a.registry)),
		generator.WithStorageFactory(a.storageFactory))
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	result, err := gen.WriteDataToFiles(ctx, a.cfg.Workload, a.Target())
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	if a.cfg.Hooks.HasPostFill() {
		a.log.Info("Run (call postfill hook)", "cmd", a.cfg.Hooks.GeneratePostFillCmd(result.Location))
		if err := a.cfg.Hooks.ExecutePostFill(result.Location); err != nil {
			return result, fmt.Errorf("%w: %w", ErrPostFillHook, err)
		}
	}
	return result, nil
}

func (a *App) s3StorageFactory(ctx context.Context, bucketPath string) (storage.Storage, error) {
	s3cfg := a.cfg.S3cfg
	s, err := s3storage.NewS3Storage(ctx, s3cfg.Region, s3cfg.Endpoint, s3cfg.BucketName,
		bucketPath, s3cfg.AccessKey, s3cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 storage: %w", err)
	}
	return s, nil
}
