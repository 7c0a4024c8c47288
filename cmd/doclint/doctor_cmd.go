package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/output"
	"github.com/raphi011/doclint/internal/report"
	"github.com/raphi011/doclint/internal/telemetry"
	"github.com/raphi011/doclint/internal/ui/progress"
	"github.com/raphi011/doclint/internal/ui/prompt"
)

func newDoctorCmd(c *cli) *cobra.Command {
	var (
		yes         bool
		no          bool
		dryRun      bool
		failFast    bool
		concurrency int
		jsonOut     bool
		strict      bool
		timestamps  bool
		copyFailed  bool
		noProgress  bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:     "doctor <path>...",
		Short:   "Diagnose paths and fix issues",
		GroupID: GroupCore,
		Args:    cobra.MinimumNArgs(1),
		Long: `Diagnose files and directories and fix what can be fixed.

Each fix is confirmed interactively unless --yes or --no is given. Paths
run concurrently (see -j); every path ends clean, fixed, declined, failed
or skipped.

Exit status is 0 on success, 1 if any path failed, and 2 if some fixes
were declined or paths skipped and --strict is set.`,
		Example: `  doclint doctor docs/             # Diagnose and fix interactively
  doclint doctor -y README.md docs/ # Apply every fix
  doclint doctor --dry-run docs/    # Show what would be fixed
  doclint doctor --json --no docs/  # Machine-readable report, no changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			cfg, err := effectiveConfig(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("concurrency") {
				if concurrency < 0 {
					return fmt.Errorf("invalid --concurrency %d: must be >= 0", concurrency)
				}
				cfg.Doctor.Concurrency = concurrency
			}
			if flags.Changed("fail-fast") {
				cfg.Doctor.FailFast = failFast
			}
			if flags.Changed("timestamps") {
				cfg.Doctor.Timestamps = timestamps
			}

			eval, fixer, err := newEngine(ctx, cfg, noCache)
			if err != nil {
				return err
			}

			opts := doctor.Options{
				Concurrency: cfg.Doctor.Concurrency,
				AutoApprove: yes || (cfg.Doctor.AutoApprove && !no),
				DryRun:      dryRun,
				FailFast:    cfg.Doctor.FailFast,
			}

			// Per-path lines go to stdout, or nowhere when stdout carries JSON.
			var lines io.Writer = c.colorWriter()
			if jsonOut {
				lines = io.Discard
			}
			out := output.New(lines, output.WithErrorLog(l), output.WithTimestamps(cfg.Doctor.Timestamps))

			var runner *doctor.Runner
			var approver doctor.Approver = doctor.DenyAll{}
			interactive := !no && !opts.AutoApprove
			if interactive {
				approver = prompt.NewGate(
					prompt.WithGateLogger(l),
					prompt.OnCancel(func() { runner.Stop() }),
				)
			}

			var sink doctor.ProgressSink = doctor.NoProgress{}
			if showProgress(c, noProgress, interactive, jsonOut) {
				sink = progress.NewBarSink(c.stderr)
			}

			runner = doctor.New(eval, fixer,
				doctor.WithApprover(approver),
				doctor.WithProgress(sink),
				doctor.WithOutput(out),
				doctor.WithLogger(l),
				doctor.WithRecorder(telemetry.NewRecorder(nil, nil)),
			)

			runCtx, release := stopOnSignal(ctx, runner, l)
			defer release()

			result, err := runner.Run(runCtx, args, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				if err := report.JSON(c.stdout, result); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out)
				if err := report.Text(out, result); err != nil {
					return err
				}
			}

			if copyFailed {
				copyPaths(l, report.FailedPaths(result))
			}

			return exitFor(result.Status, strict)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply every fix without asking")
	cmd.Flags().BoolVar(&no, "no", false, "Decline every fix (report only)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show fixes without applying them")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop starting new paths after the first failure")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Paths processed at once (0 = one per CPU)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 2 when fixes were declined or paths skipped")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Prefix output lines with timestamps")
	cmd.Flags().BoolVar(&copyFailed, "copy", false, "Copy failed paths to the clipboard")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Never show the progress bar")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the analysis cache")
	cmd.MarkFlagsMutuallyExclusive("yes", "no")

	return cmd
}

// showProgress decides whether to draw the progress bar on stderr. Prompts
// share stderr, and per-path lines would tear the bar on a shared terminal.
func showProgress(c *cli, disabled, interactive, jsonOut bool) bool {
	if disabled || interactive || !isTerminal(c.stderr) {
		return false
	}
	return jsonOut || !isTerminal(c.stdout)
}

// exitFor maps the overall status to the process exit code.
func exitFor(status doctor.OverallStatus, strict bool) error {
	switch status {
	case doctor.StatusFailure:
		return &exitError{code: 1}
	case doctor.StatusPartialFailure:
		if strict {
			return &exitError{code: 2}
		}
	}
	return nil
}

func copyPaths(l *log.Logger, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(paths, "\n")); err != nil {
		l.Printf("Warning: failed to copy to clipboard: %v\n", err)
		return
	}
	l.Printf("Copied %d failed path(s) to clipboard\n", len(paths))
}
