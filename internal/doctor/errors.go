package doctor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation signals a scheduling defect, such as a path
	// recorded twice. It is fatal to the run.
	ErrInvariantViolation = errors.New("internal invariant violation")

	// ErrDuplicatePath is returned by Run when the path set repeats an entry.
	ErrDuplicatePath = errors.New("duplicate path")

	// ErrEmptyPath is returned by Run when the path set contains "".
	ErrEmptyPath = errors.New("empty path")

	// ErrApprovalUnavailable means no interactive medium could answer.
	// Approvers treat it as a decline.
	ErrApprovalUnavailable = errors.New("approval unavailable")
)

// InvariantError describes an aggregation defect for a specific path.
type InvariantError struct {
	Path   string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvariantViolation, e.Path, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// AnalysisError wraps an Evaluator failure for a path.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ApplyError wraps a Fixer failure for one diagnostic.
type ApplyError struct {
	Path       string
	Diagnostic Diagnostic
	Err        error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s fix at %s: %v", e.Diagnostic.Kind, e.Diagnostic.Location(e.Path), e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// ErrorKind returns a short classification of a path error for reports.
func ErrorKind(err error) string {
	var ae *AnalysisError
	var fe *ApplyError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return "analysis"
	case errors.As(err, &fe):
		return "apply"
	case errors.Is(err, ErrInvariantViolation):
		return "internal"
	default:
		return "error"
	}
}
