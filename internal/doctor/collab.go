package doctor

import "context"

// Evaluator produces the diagnostics for a path.
type Evaluator interface {
	Evaluate(ctx context.Context, path string) ([]Diagnostic, error)
}

// Fixer applies the fix for a single diagnostic. It is called at most
// once per diagnostic.
type Fixer interface {
	Apply(ctx context.Context, path string, d Diagnostic) error
}

// Recorder observes completed paths and runs (metrics, events).
type Recorder interface {
	RecordPath(ctx context.Context, res PathRunResult)
	RecordRun(ctx context.Context, res *RunResult)
}

type nopRecorder struct{}

func (nopRecorder) RecordPath(context.Context, PathRunResult) {}
func (nopRecorder) RecordRun(context.Context, *RunResult)     {}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, path string) ([]Diagnostic, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, path string) ([]Diagnostic, error) {
	return f(ctx, path)
}

// FixerFunc adapts a function to Fixer.
type FixerFunc func(ctx context.Context, path string, d Diagnostic) error

// Apply calls f.
func (f FixerFunc) Apply(ctx context.Context, path string, d Diagnostic) error {
	return f(ctx, path, d)
}
