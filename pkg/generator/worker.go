package generator

import (
	"context"
	"time"

	"github.com/sgaunet/tilefill/pkg/constants"
	"github.com/sgaunet/tilefill/pkg/metrics"
	"github.com/sgaunet/tilefill/pkg/naming"
	"github.com/sgaunet/tilefill/pkg/planner"
	"github.com/sgaunet/tilefill/pkg/randbytes"
	"github.com/sgaunet/tilefill/pkg/storage"
	"golang.org/x/time/rate"
)

// WorkerReport summarizes one worker run.
type WorkerReport struct {
	WorkerID     int
	Budget       int64
	Consumed     int64
	FilesWritten int
	FilesFailed  int
	FilesSkipped int
	// LevelCounts holds the number of files planned for each level.
	LevelCounts [constants.LevelCount]int
	Files       []string
}

// Worker fills its budget with files of levels MinLevel to MaxLevel. A
// Worker owns all of its state and is not safe for concurrent use.
type Worker struct {
	id       int
	budget   int64
	consumed int64
	planner  *planner.Planner
	source   *randbytes.Source
	template *naming.Template
	storage  storage.Storage
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	log      Logger
}

// Run sweeps every level once. For each planned file that still fits in the
// budget, the file is rendered and saved. When a file does not fit, the rest
// of its level is abandoned and the sweep moves on to the next level. Failed
// writes are logged and not credited to the budget. Run stops between two
// files once ctx is done.
func (w *Worker) Run(ctx context.Context) WorkerReport {
	report := WorkerReport{
		WorkerID: w.id,
		Budget:   w.budget,
	}
	w.metrics.WorkerStarted()
	defer w.metrics.WorkerDone()

	for level := constants.MinLevel; level <= constants.MaxLevel; level++ {
		count := w.planner.CountForLevel(level)
		report.LevelCounts[level-constants.MinLevel] = count
		w.log.Debug("level planned", "worker", w.id, "level", level, "files", count)
		for i := range count {
			if ctx.Err() != nil {
				w.log.Warn("worker interrupted", "worker", w.id, "level", level, "error", ctx.Err())
				report.Consumed = w.consumed
				return report
			}
			spec := w.planner.PlanFile(level)
			if w.consumed+spec.Size() > w.budget {
				skipped := count - i
				report.FilesSkipped += skipped
				for range skipped {
					w.metrics.FileSkipped()
				}
				w.log.Debug("budget reached for level",
					"worker", w.id, "level", level, "consumed", w.consumed, "budget", w.budget)
				break
			}
			name, err := w.writeFile(ctx, spec)
			if err != nil {
				report.FilesFailed++
				w.metrics.WriteFailed()
				w.log.Error("failed to write file",
					"worker", w.id, "level", level, "file", name, "error", err)
				continue
			}
			w.consumed += spec.Size()
			report.FilesWritten++
			report.Files = append(report.Files, name)
		}
	}
	report.Consumed = w.consumed
	w.log.Info("worker done", "worker", w.id, "files", report.FilesWritten,
		"consumed", w.consumed, "budget", w.budget)
	return report
}

func (w *Worker) writeFile(ctx context.Context, spec planner.FileSpec) (string, error) {
	name := w.template.Render(spec.Vars())
	rows := randbytes.NewRows(w.source, spec.Width, spec.Height)
	begin := time.Now()
	err := w.storage.SaveFile(ctx, newThrottledSource(ctx, rows, w.limiter), name, rows.Size())
	if err != nil {
		return name, err //nolint:wrapcheck // storage errors carry the path
	}
	w.metrics.FileWritten(spec.Size(), time.Since(begin))
	w.log.Debug("file written", "worker", w.id, "file", name, "size", spec.Size())
	return name, nil
}
