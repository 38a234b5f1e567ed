package sanitizer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Runner orchestrates a batch: it fans the file list out to a worker pool,
// aggregates per-file outcomes, and derives the final report. Files are
// provably independent, so one file's failure never blocks or corrupts
// another's processing.
type Runner struct {
	opts        *Options
	logger      *slog.Logger
	processor   *FileProcessor
	aggregator  *outcomeAggregator
	concurrency int
}

// NewRunner validates the options and builds a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "runner"))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	return &Runner{
		opts:        &opts,
		logger:      logger,
		processor:   NewFileProcessor(&opts, opts.Logger),
		aggregator:  newOutcomeAggregator(),
		concurrency: concurrency,
	}, nil
}

// Run processes every path in the list and returns the aggregated report.
// An empty list is a distinct "nothing to do" success, reported separately
// from "no changes needed". The returned error is reserved for run-level
// faults (currently only context cancellation); per-file failures live in
// the report.
func (r *Runner) Run(ctx context.Context, paths []string) (Report, error) {
	startTime := time.Now()
	r.logger.Info("Starting sanitize run",
		slog.String("mode", string(r.opts.Mode)),
		slog.Int("files", len(paths)),
		slog.Int("concurrency", r.concurrency))

	if len(paths) == 0 {
		r.logger.Info("No files to process")
		report := r.aggregator.report(r.opts, startTime, r.concurrency, true)
		r.notifyComplete(report)
		return report, nil
	}

	pathChan := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go r.worker(ctx, &wg, i, pathChan)
	}

feed:
	for _, path := range paths {
		select {
		case pathChan <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(pathChan)
	wg.Wait()

	report := r.aggregator.report(r.opts, startTime, r.concurrency, false)
	r.logger.Info("Sanitize run finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("changed", report.Summary.ChangedCount),
		slog.Int("unchanged", report.Summary.UnchangedCount),
		slog.Int("skipped", report.Summary.SkippedCount),
		slog.Int("failed", report.Summary.FailedCount))

	r.notifyComplete(report)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// worker drains the path channel, isolating each file behind a panic
// boundary so a crash on one file becomes a failed outcome instead of
// unwinding the whole batch.
func (r *Runner) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, pathChan <-chan string) {
	defer wg.Done()
	wLogger := r.logger.With(slog.Int("workerID", workerID))
	wLogger.Debug("Worker started")

	for path := range pathChan {
		outcome := r.processOne(ctx, path, wLogger)
		r.aggregator.add(outcome)
		if hookErr := r.opts.Hooks.OnFileStatusUpdate(outcome.Path, outcome.Status, outcome.Message, time.Duration(outcome.DurationMs)*time.Millisecond); hookErr != nil {
			wLogger.Warn("OnFileStatusUpdate hook returned an error", slog.Any("error", hookErr))
		}
	}
	wLogger.Debug("Worker shutting down (channel closed)")
}

// processOne wraps a single Process call in a recover so the per-file
// isolation guarantee holds even against programming errors.
func (r *Runner) processOne(ctx context.Context, path string, wLogger *slog.Logger) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			wLogger.Error("Panic recovered while processing file",
				slog.String("path", path), slog.Any("panicValue", rec))
			outcome = Outcome{
				Path:    path,
				Status:  StatusFailed,
				Message: fmt.Sprintf("panic: %v", rec),
			}
		}
	}()
	return r.processor.Process(ctx, path)
}

// notifyComplete fires the run-complete hook, logging rather than
// propagating hook errors.
func (r *Runner) notifyComplete(report Report) {
	if hookErr := r.opts.Hooks.OnRunComplete(report); hookErr != nil {
		r.logger.Warn("OnRunComplete hook returned an error", slog.Any("error", hookErr))
	}
}

// --- outcomeAggregator ---

// outcomeAggregator collects per-file outcomes (thread-safe).
type outcomeAggregator struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func newOutcomeAggregator() *outcomeAggregator {
	return &outcomeAggregator{outcomes: make([]Outcome, 0, 128)}
}

func (a *outcomeAggregator) add(o Outcome) {
	a.mu.Lock()
	a.outcomes = append(a.outcomes, o)
	a.mu.Unlock()
}

// report compiles the final Report. The summary is a pure function of the
// collected outcomes, so it is independent of processing order.
func (a *outcomeAggregator) report(opts *Options, startTime time.Time, concurrency int, nothingToDo bool) Report {
	a.mu.Lock()
	outcomes := make([]Outcome, len(a.outcomes))
	copy(outcomes, a.outcomes)
	a.mu.Unlock()

	summary := ReportSummary{
		Mode:            opts.Mode,
		InputPath:       opts.InputPath,
		ProfileUsed:     opts.ProfileName,
		ConfigFilePath:  opts.ConfigFilePath,
		TotalFiles:      len(outcomes),
		NothingToDo:     nothingToDo,
		DurationSeconds: time.Since(startTime).Seconds(),
		Concurrency:     concurrency,
		Timestamp:       time.Now().UTC(),
		SchemaVersion:   ReportSchemaVersion,
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusChanged:
			summary.ChangedCount++
		case StatusUnchanged:
			summary.UnchangedCount++
		case StatusSkipped:
			summary.SkippedCount++
		case StatusFailed:
			summary.FailedCount++
		}
		if o.BackupWritten {
			summary.BackupCount++
		}
	}
	return Report{Summary: summary, Outcomes: outcomes}
}
