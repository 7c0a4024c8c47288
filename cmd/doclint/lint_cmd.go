package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/lint"
	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/output"
	"github.com/raphi011/doclint/internal/report"
	"github.com/raphi011/doclint/internal/telemetry"
	"github.com/raphi011/doclint/internal/ui/progress"
	"github.com/raphi011/doclint/internal/watch"
)

func newLintCmd(c *cli) *cobra.Command {
	var (
		concurrency int
		noProgress  bool
		noCache     bool
		watchPaths  bool
	)

	cmd := &cobra.Command{
		Use:     "lint <path>...",
		Short:   "Report issues without changing anything",
		GroupID: GroupCore,
		Args:    cobra.MinimumNArgs(1),
		Long: `Report issues in files and directories without fixing them.

Exits 1 if any path has issues or could not be analyzed.

With --watch, keeps running after the first pass and re-lints files as
they change until interrupted.`,
		Example: `  doclint lint docs/ README.md  # Report issues
  doclint lint --watch docs/    # Re-lint on every change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			cfg, err := effectiveConfig(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				if concurrency < 0 {
					return fmt.Errorf("invalid --concurrency %d: must be >= 0", concurrency)
				}
				cfg.Doctor.Concurrency = concurrency
			}

			eval, fixer, err := newEngine(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			lr := &linter{
				eval:  eval,
				fixer: fixer,
				out:   output.New(c.colorWriter(), output.WithErrorLog(l), output.WithTimestamps(cfg.Doctor.Timestamps)),
				l:     l,
				opts:  doctor.Options{Concurrency: cfg.Doctor.Concurrency, FailFast: cfg.Doctor.FailFast},
			}
			if !watchPaths && showProgress(c, noProgress, false, false) {
				lr.progress = progress.NewBarSink(c.stderr)
			}

			if !watchPaths {
				result, err := lr.run(ctx, args)
				if err != nil {
					return err
				}
				lr.out.WriteLine(report.Summary(result))
				if hasIssues(result) {
					return &exitError{code: 1}
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return lr.watch(ctx, args)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Paths processed at once (0 = one per CPU)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Never show the progress bar")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the analysis cache")
	cmd.Flags().BoolVarP(&watchPaths, "watch", "w", false, "Re-lint files when they change")

	return cmd
}

// linter runs report-only doctor passes.
type linter struct {
	eval     *lint.Engine
	fixer    doctor.Fixer
	out      *output.Writer
	l        *log.Logger
	progress doctor.ProgressSink
	opts     doctor.Options
}

func (lr *linter) run(ctx context.Context, paths []string) (*doctor.RunResult, error) {
	opts := []doctor.RunnerOption{
		doctor.WithApprover(doctor.DenyAll{}),
		doctor.WithOutput(lr.out),
		doctor.WithLogger(lr.l),
		doctor.WithRecorder(telemetry.NewRecorder(nil, nil)),
	}
	if lr.progress != nil {
		opts = append(opts, doctor.WithProgress(lr.progress))
	}
	runner := doctor.New(lr.eval, lr.fixer, opts...)

	runCtx, release := stopOnSignal(ctx, runner, lr.l)
	defer release()
	return runner.Run(runCtx, paths, lr.opts)
}

// watch lints paths once, then re-lints changed files until ctx is done.
func (lr *linter) watch(ctx context.Context, paths []string) error {
	w, err := watch.New(watch.WithFilter(func(root, path string) bool {
		rel, err := filepath.Rel(root, path)
		return err == nil && lr.eval.Accepts(rel)
	}))
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
	}

	result, err := lr.run(ctx, paths)
	if err != nil {
		return err
	}
	lr.out.WriteLine(report.Summary(result))
	lr.l.Printf("Watching %d path(s) for changes, press Ctrl+C to stop\n", len(paths))

	return w.Run(ctx, func(ctx context.Context, files []string) {
		result, err := lr.run(ctx, files)
		if err != nil {
			lr.l.Printf("Error: %v\n", err)
			return
		}
		lr.out.WriteLine(report.Summary(result))
	})
}

// hasIssues reports whether any path failed or has diagnostics.
func hasIssues(r *doctor.RunResult) bool {
	for _, res := range r.Results {
		if res.Outcome != doctor.OutcomeClean && res.Outcome != doctor.OutcomeSkipped {
			return true
		}
	}
	return r.Status == doctor.StatusFailure
}
