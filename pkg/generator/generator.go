// Package generator fills a storage target with randomly sized files of
// random bytes until a volume budget, split between concurrent workers, is
// exhausted.
package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/metrics"
	"github.com/sgaunet/tilefill/pkg/naming"
	"github.com/sgaunet/tilefill/pkg/planner"
	"github.com/sgaunet/tilefill/pkg/randbytes"
	"github.com/sgaunet/tilefill/pkg/storage"
	"github.com/sgaunet/tilefill/pkg/storage/localstorage"
	"golang.org/x/sync/errgroup"
)

// Logger is the logging interface used by the generator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StorageFactory opens the storage rooted at outputDirectory.
type StorageFactory func(ctx context.Context, outputDirectory string) (storage.Storage, error)

// LocalStorageFactory writes to a directory of the local file system.
func LocalStorageFactory(_ context.Context, outputDirectory string) (storage.Storage, error) {
	return localstorage.NewLocalStorage(outputDirectory), nil
}

// Result describes a finished run.
type Result struct {
	Location        string
	PerWorkerBudget int64
	// Unallocated is the part of the total volume no worker received.
	Unallocated int64
	Workers     []WorkerReport
	Duration    time.Duration
}

// FilesWritten is the number of files written by all workers.
func (r *Result) FilesWritten() int {
	total := 0
	for _, w := range r.Workers {
		total += w.FilesWritten
	}
	return total
}

// FilesFailed is the number of files no worker could write.
func (r *Result) FilesFailed() int {
	total := 0
	for _, w := range r.Workers {
		total += w.FilesFailed
	}
	return total
}

// BytesWritten is the volume written by all workers.
func (r *Result) BytesWritten() int64 {
	var total int64
	for _, w := range r.Workers {
		total += w.Consumed
	}
	return total
}

// Generator runs the workers. Its configuration is read-only once created.
type Generator struct {
	cfg         *config.Config
	template    *naming.Template
	newStorage  StorageFactory
	metrics     *metrics.Metrics
	log         Logger
	plannerOpts []planner.Option
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithStorageFactory replaces the local file system target.
func WithStorageFactory(f StorageFactory) Option {
	return func(g *Generator) {
		g.newStorage = f
	}
}

// WithMetrics sets the metrics updated by the workers.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithPlannerOptions is passed to the planner of every worker.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(g *Generator) {
		g.plannerOpts = append(g.plannerOpts, opts...)
	}
}

// New validates cfg and returns a Generator.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	tmpl, err := naming.Parse(cfg.NameTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid name template: %w", err)
	}
	g := &Generator{
		cfg:        cfg,
		template:   tmpl,
		newStorage: LocalStorageFactory,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = metrics.New(nil)
	}
	return g, nil
}

// SplitBudget divides total between workers using floor division and
// returns the per-worker budget with the remainder left unallocated.
func SplitBudget(total int64, workers int) (perWorker, unallocated int64) {
	if workers < 1 || total <= 0 {
		return 0, max(total, 0)
	}
	perWorker = total / int64(workers)
	return perWorker, total - perWorker*int64(workers)
}

// WriteDataToFiles prepares outputDirectory, then runs one worker per
// configured worker count, each bounded by an equal share of
// totalVolumeLimit, and waits for all of them. Per-file write failures are
// absorbed by the workers and reported in the Result; the only errors
// returned concern the arguments and the preparation of the output.
func (g *Generator) WriteDataToFiles(ctx context.Context, totalVolumeLimit int64, outputDirectory string) (*Result, error) {
	if totalVolumeLimit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVolume, totalVolumeLimit)
	}
	begin := time.Now()

	store, err := g.newStorage(ctx, outputDirectory)
	if err != nil {
		return nil, &DirectoryCreationError{Location: outputDirectory, Err: err}
	}
	if err := store.Prepare(ctx); err != nil {
		return nil, &DirectoryCreationError{Location: store.Location(), Err: err}
	}

	workerCount := g.cfg.WorkerCount
	if !g.template.UsesFileID() {
		g.log.Warn("name template has no file_id, files may overwrite each other",
			"template", g.template.String())
	}
	perWorker, unallocated := SplitBudget(totalVolumeLimit, workerCount)
	g.metrics.SetWorkerBudget(perWorker)
	g.log.Info("starting generation",
		"location", store.Location(),
		"workers", workerCount,
		"total", totalVolumeLimit,
		"perWorkerBudget", perWorker,
		"unallocated", unallocated)

	reports := make([]WorkerReport, workerCount)
	var eg errgroup.Group
	for id := range workerCount {
		w := g.newWorker(id, perWorker, store)
		eg.Go(func() error {
			reports[id] = w.Run(ctx)
			return nil
		})
	}
	_ = eg.Wait() // workers never fail

	result := &Result{
		Location:        store.Location(),
		PerWorkerBudget: perWorker,
		Unallocated:     unallocated,
		Workers:         reports,
		Duration:        time.Since(begin),
	}
	g.log.Info("generation done",
		"location", result.Location,
		"files", result.FilesWritten(),
		"failed", result.FilesFailed(),
		"bytes", result.BytesWritten(),
		"duration", result.Duration)
	return result, nil
}

func (g *Generator) newWorker(id int, budget int64, store storage.Storage) *Worker {
	var rng *rand.Rand
	var source *randbytes.Source
	if g.cfg.Seed != 0 {
		seed := g.cfg.Seed + uint64(id) //nolint:gosec // id is a small positive index
		rng = rand.New(rand.NewPCG(seed, seed))
		source = randbytes.New(seed)
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sizes, not secrets
		source = randbytes.NewRandom()
	}
	return &Worker{
		id:       id,
		budget:   budget,
		planner:  planner.New(rng, g.cfg.Width(), g.cfg.Height(), g.plannerOpts...),
		source:   source,
		template: g.template,
		storage:  store,
		limiter:  newLimiter(perWorkerRate(g.cfg.RateLimit, g.cfg.WorkerCount), g.cfg.WidthMax),
		metrics:  g.metrics,
		log:      g.log,
	}
}
