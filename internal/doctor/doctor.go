package doctor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/output"
)

// Skip reasons recorded for paths that never started.
const (
	ReasonFailFast = "cancelled by fail-fast"
	ReasonStopped  = "cancelled"
)

// Runner schedules path runs under a concurrency bound and aggregates
// their results.
type Runner struct {
	eval     Evaluator
	fixer    Fixer
	approver Approver
	progress ProgressSink
	out      *output.Writer
	logger   *log.Logger
	recorder Recorder
	now      func() time.Time

	stopped atomic.Bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithApprover sets the decision source for fixes. Defaults to DenyAll.
func WithApprover(a Approver) RunnerOption {
	return func(r *Runner) { r.approver = a }
}

// WithProgress sets the progress sink. Defaults to NoProgress.
func WithProgress(p ProgressSink) RunnerOption {
	return func(r *Runner) { r.progress = p }
}

// WithOutput sets the shared writer for per-path lines.
func WithOutput(w *output.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithRecorder sets the metrics/event recorder.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner that evaluates with eval and applies fixes with fixer.
func New(eval Evaluator, fixer Fixer, opts ...RunnerOption) *Runner {
	r := &Runner{
		eval:     eval,
		fixer:    fixer,
		approver: DenyAll{},
		progress: NoProgress{},
		out:      output.New(io.Discard),
		logger:   log.New(io.Discard, false, false),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stop prevents any further path runs from starting. Runs already in
// flight finish normally; the rest are recorded as skipped. Safe to call
// from a signal handler goroutine. A Stop before Run applies to that run;
// the flag is cleared when Run returns, so the Runner can be reused.
func (r *Runner) Stop() {
	r.stopped.Store(true)
}

// Run diagnoses every path and returns once each has a terminal result.
// The only run-level errors are invalid input (ErrEmptyPath,
// ErrDuplicatePath) and ErrInvariantViolation; per-path failures are
// reported in the result.
func (r *Runner) Run(ctx context.Context, paths []string, opts Options) (*RunResult, error) {
	defer r.stopped.Store(false)
	if err := validatePaths(paths); err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	approver := r.approver
	if opts.AutoApprove {
		approver = AutoApprove{}
	}

	l := r.logger
	l.Debug("doctor run", "paths", len(paths), "concurrency", concurrency,
		"autoApprove", opts.AutoApprove, "dryRun", opts.DryRun, "failFast", opts.FailFast)

	start := r.now()
	agg := NewAggregator(paths)
	r.progress.Start(len(paths))

	// In-flight path work must not observe cancellation; a fix is never
	// interrupted halfway.
	workCtx := context.WithoutCancel(ctx)

	var failed atomic.Bool
	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, path := range paths {
		if reason, stop := r.stopReason(ctx, opts, &failed); stop {
			if err := r.skip(workCtx, agg, path, reason); err != nil {
				_ = g.Wait()
				r.progress.Finish()
				return nil, err
			}
			continue
		}

		// Go blocks until a slot frees up; the stop conditions may have
		// changed by the time this path gets one.
		g.Go(func() error {
			if reason, stop := r.stopReason(ctx, opts, &failed); stop {
				return r.skip(workCtx, agg, path, reason)
			}
			res := r.runPath(workCtx, path, opts, approver)
			if res.Outcome == OutcomeFailed {
				failed.Store(true)
			}
			return r.record(workCtx, agg, res)
		})
	}

	err := g.Wait()
	r.progress.Finish()
	if err != nil {
		return nil, err
	}

	result, err := agg.Finalize()
	if err != nil {
		return nil, err
	}
	result.Duration = r.now().Sub(start)
	r.recorder.RecordRun(workCtx, result)
	l.Debug("doctor run done", "status", result.Status, "duration", result.Duration)
	return result, nil
}

// stopReason reports whether new path runs must not start, and why.
func (r *Runner) stopReason(ctx context.Context, opts Options, failed *atomic.Bool) (string, bool) {
	switch {
	case opts.FailFast && failed.Load():
		return ReasonFailFast, true
	case r.stopped.Load(), ctx.Err() != nil:
		return ReasonStopped, true
	default:
		return "", false
	}
}

func (r *Runner) skip(ctx context.Context, agg *Aggregator, path, reason string) error {
	res := PathRunResult{Target: path, Outcome: OutcomeSkipped, Reason: reason}
	r.emit(r.logger.With("path", path), fmt.Sprintf("- %s: skipped (%s)", path, reason))
	r.progress.Advance(1)
	return r.record(ctx, agg, res)
}

func (r *Runner) record(ctx context.Context, agg *Aggregator, res PathRunResult) error {
	if err := agg.Record(res); err != nil {
		r.logger.Warn("aggregation failed", "path", res.Target, "err", err)
		return err
	}
	r.recorder.RecordPath(ctx, res)
	return nil
}

func validatePaths(paths []string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			return ErrEmptyPath
		}
		if seen[p] {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, p)
		}
		seen[p] = true
	}
	return nil
}
