package doctor

import (
	"slices"
	"sync"
)

// Aggregator is the single accumulation point for a run's results.
// It is safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	order   []string
	results map[string]PathRunResult
	final   *RunResult
}

// NewAggregator creates an aggregator expecting the given paths, in input order.
func NewAggregator(order []string) *Aggregator {
	return &Aggregator{
		order:   slices.Clone(order),
		results: make(map[string]PathRunResult, len(order)),
	}
}

// Record stores res. Recording a path twice, or recording after Finalize,
// returns an *InvariantError.
func (a *Aggregator) Record(res PathRunResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.final != nil {
		return &InvariantError{Path: res.Target, Reason: "recorded after finalize"}
	}
	if _, dup := a.results[res.Target]; dup {
		return &InvariantError{Path: res.Target, Reason: "recorded twice"}
	}
	a.results[res.Target] = res
	return nil
}

// Len returns the number of recorded results.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Finalize freezes the aggregator and returns the run result. Every
// expected path must have been recorded. Repeated calls return the same
// result.
func (a *Aggregator) Finalize() (*RunResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.final != nil {
		return a.final, nil
	}
	for _, p := range a.order {
		if _, ok := a.results[p]; !ok {
			return nil, &InvariantError{Path: p, Reason: "no result recorded"}
		}
	}

	order := a.order
	if len(a.results) > len(order) {
		var extra []string
		for p := range a.results {
			if !slices.Contains(order, p) {
				extra = append(extra, p)
			}
		}
		slices.Sort(extra)
		order = append(slices.Clone(order), extra...)
	}

	a.final = &RunResult{
		Results: a.results,
		Order:   order,
		Status:  overallStatus(a.results),
	}
	return a.final, nil
}

// overallStatus applies the run-level rule: any Failed is Failure, any
// Declined or Skipped is PartialFailure, otherwise Success.
func overallStatus(results map[string]PathRunResult) OverallStatus {
	status := StatusSuccess
	for _, res := range results {
		switch res.Outcome {
		case OutcomeFailed:
			return StatusFailure
		case OutcomeFixesDeclined, OutcomeSkipped:
			status = StatusPartialFailure
		}
	}
	return status
}
