package doctor

import (
	"fmt"
	"strconv"
	"time"
)

// Diagnostic is one issue found on a path.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Fixable bool   `json:"fixable"`
	File    string `json:"file,omitempty"` // file inside the target; empty means the target itself
	Line    int    `json:"line,omitempty"` // 1-based; 0 means the whole file
}

// Location returns "file:line" for the diagnostic, falling back to target
// when the diagnostic does not name a file.
func (d Diagnostic) Location(target string) string {
	file := d.File
	if file == "" {
		file = target
	}
	if d.Line > 0 {
		return file + ":" + strconv.Itoa(d.Line)
	}
	return file
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// OutcomeKind is the terminal state of one path run.
type OutcomeKind int

const (
	// OutcomeClean means the path had no diagnostics.
	OutcomeClean OutcomeKind = iota
	// OutcomeFixedApplied means every diagnostic on the path was fixed.
	OutcomeFixedApplied
	// OutcomeFixesDeclined means some diagnostics were left unfixed.
	OutcomeFixesDeclined
	// OutcomeFailed means analysis or a fix application failed.
	OutcomeFailed
	// OutcomeSkipped means the path run never started.
	OutcomeSkipped
)

func (o OutcomeKind) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeFixedApplied:
		return "fixed"
	case OutcomeFixesDeclined:
		return "declined"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome as its string form.
func (o OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// PathRunResult is the result of one path run. It is immutable once handed
// to the Aggregator.
type PathRunResult struct {
	Target      string
	Outcome     OutcomeKind
	Diagnostics []Diagnostic // in analysis order
	Fixed       []Diagnostic // FixedApplied payload
	Declined    []Diagnostic // FixesDeclined payload
	Err         error        // Failed payload
	Reason      string       // Skipped payload
	Duration    time.Duration
}

// OverallStatus summarizes a whole run.
type OverallStatus int

const (
	// StatusSuccess means every path is clean or fully fixed.
	StatusSuccess OverallStatus = iota
	// StatusPartialFailure means some paths were declined or skipped, none failed.
	StatusPartialFailure
	// StatusFailure means at least one path failed.
	StatusFailure
)

func (s OverallStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialFailure:
		return "partial-failure"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its string form.
func (s OverallStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RunResult is the aggregated outcome of a run. Results is keyed by path;
// iterate Order (input order) for deterministic reporting.
type RunResult struct {
	Results  map[string]PathRunResult
	Order    []string
	Status   OverallStatus
	Duration time.Duration
}

// Ordered returns the path results in input order.
func (r *RunResult) Ordered() []PathRunResult {
	out := make([]PathRunResult, 0, len(r.Order))
	for _, p := range r.Order {
		out = append(out, r.Results[p])
	}
	return out
}

// Counts returns the number of paths per outcome.
func (r *RunResult) Counts() map[OutcomeKind]int {
	counts := make(map[OutcomeKind]int)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// Options controls a single run.
type Options struct {
	Concurrency int  // max simultaneous path runs; <= 0 uses GOMAXPROCS
	AutoApprove bool // approve every fix without asking
	DryRun      bool // never apply fixes, even when approved
	FailFast    bool // stop launching new path runs after the first failure
}
