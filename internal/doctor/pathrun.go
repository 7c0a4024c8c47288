package doctor

import (
	"context"
	"fmt"

	"github.com/raphi011/doclint/internal/log"
)

// runPath drives a single path through analyze, approve and apply.
// The returned result is never mutated afterwards.
func (r *Runner) runPath(ctx context.Context, path string, opts Options, approver Approver) PathRunResult {
	start := r.now()
	l := r.logger.With("path", path)
	res := PathRunResult{Target: path}

	finish := func(outcome OutcomeKind) PathRunResult {
		res.Outcome = outcome
		res.Duration = r.now().Sub(start)
		l.Debug("path done", "outcome", outcome, "duration", res.Duration)
		r.progress.Advance(1)
		return res
	}

	l.Debug("analyzing")
	diags, err := r.eval.Evaluate(ctx, path)
	if err != nil {
		res.Err = &AnalysisError{Path: path, Err: err}
		r.emit(l, fmt.Sprintf("✗ %s: analysis failed: %v", path, err))
		return finish(OutcomeFailed)
	}
	res.Diagnostics = diags

	if len(diags) == 0 {
		r.emit(l, fmt.Sprintf("✓ %s: clean", path))
		return finish(OutcomeClean)
	}

	for _, d := range diags {
		loc := d.Location(path)

		if !d.Fixable {
			res.Declined = append(res.Declined, d)
			r.emit(l, fmt.Sprintf("• %s: %s (no fix available)", loc, d))
			continue
		}

		if !approver.Confirm(ctx, fixPrompt(loc, d)) {
			res.Declined = append(res.Declined, d)
			r.emit(l, fmt.Sprintf("⚠ %s: %s (fix declined)", loc, d))
			continue
		}

		if opts.DryRun {
			res.Declined = append(res.Declined, d)
			r.emit(l, fmt.Sprintf("⚠ %s: %s (dry run, not applied)", loc, d))
			continue
		}

		if err := r.fixer.Apply(ctx, path, d); err != nil {
			res.Err = &ApplyError{Path: path, Diagnostic: d, Err: err}
			r.emit(l, fmt.Sprintf("✗ %s: fixing %s failed: %v", loc, d.Kind, err))
			return finish(OutcomeFailed)
		}
		res.Fixed = append(res.Fixed, d)
		r.emit(l, fmt.Sprintf("✓ %s: fixed %s", loc, d.Kind))
	}

	if len(res.Declined) > 0 {
		return finish(OutcomeFixesDeclined)
	}
	return finish(OutcomeFixedApplied)
}

// emit writes a user-facing line and mirrors it to the debug log.
func (r *Runner) emit(l *log.Logger, line string) {
	r.out.WriteLine(line)
	l.Debug("stdout", "line", line)
}

func fixPrompt(loc string, d Diagnostic) string {
	return fmt.Sprintf("Fix %s at %s (%s)?", d.Kind, loc, d.Message)
}
