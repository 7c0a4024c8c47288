// Package report renders the result of a doctor run for people and for
// machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/ui/static"
	"github.com/raphi011/doclint/internal/ui/styles"
)

// summaryOrder is the order outcomes appear in the summary line.
var summaryOrder = []doctor.OutcomeKind{
	doctor.OutcomeClean,
	doctor.OutcomeFixedApplied,
	doctor.OutcomeFixesDeclined,
	doctor.OutcomeFailed,
	doctor.OutcomeSkipped,
}

// Text writes a per-path table in input order followed by a summary line.
func Text(w io.Writer, r *doctor.RunResult) error {
	ordered := r.Ordered()
	rows := make([][]string, 0, len(ordered))
	for _, res := range ordered {
		rows = append(rows, static.ResultRow(res))
	}
	if _, err := io.WriteString(w, static.RenderTable(static.ResultHeaders, rows)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Summary(r))
	return err
}

// Summary returns a one-line overview such as
// "3 paths: 2 clean, 1 failed (failure, 1.2s)".
func Summary(r *doctor.RunResult) string {
	counts := r.Counts()
	var parts []string
	for _, kind := range summaryOrder {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind))
		}
	}
	noun := "paths"
	if len(r.Order) == 1 {
		noun = "path"
	}
	return fmt.Sprintf("%d %s: %s (%s, %s)",
		len(r.Order), noun, strings.Join(parts, ", "),
		statusStyle(r.Status).Render(r.Status.String()), r.Duration.Round(time.Millisecond))
}

func statusStyle(s doctor.OverallStatus) lipgloss.Style {
	switch s {
	case doctor.StatusSuccess:
		return styles.SuccessStyle
	case doctor.StatusPartialFailure:
		return styles.WarningStyle
	default:
		return styles.ErrorStyle
	}
}

type jsonRun struct {
	Status     doctor.OverallStatus `json:"status"`
	DurationMS int64                `json:"duration_ms"`
	Counts     map[string]int       `json:"counts"`
	Paths      []jsonPath           `json:"paths"`
}

type jsonPath struct {
	Target      string              `json:"target"`
	Outcome     doctor.OutcomeKind  `json:"outcome"`
	Diagnostics []doctor.Diagnostic `json:"diagnostics"`
	Fixed       []doctor.Diagnostic `json:"fixed,omitempty"`
	Declined    []doctor.Diagnostic `json:"declined,omitempty"`
	Error       string              `json:"error,omitempty"`
	ErrorKind   string              `json:"error_kind,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
}

// JSON writes the run as an indented JSON document.
func JSON(w io.Writer, r *doctor.RunResult) error {
	out := jsonRun{
		Status:     r.Status,
		DurationMS: r.Duration.Milliseconds(),
		Counts:     make(map[string]int),
		Paths:      make([]jsonPath, 0, len(r.Order)),
	}
	for kind, n := range r.Counts() {
		out.Counts[kind.String()] = n
	}
	for _, res := range r.Ordered() {
		p := jsonPath{
			Target:      res.Target,
			Outcome:     res.Outcome,
			Diagnostics: res.Diagnostics,
			Fixed:       res.Fixed,
			Declined:    res.Declined,
			Reason:      res.Reason,
			DurationMS:  res.Duration.Milliseconds(),
		}
		if p.Diagnostics == nil {
			p.Diagnostics = []doctor.Diagnostic{}
		}
		if res.Err != nil {
			p.Error = res.Err.Error()
			p.ErrorKind = doctor.ErrorKind(res.Err)
		}
		out.Paths = append(out.Paths, p)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FailedPaths returns the failed targets in input order.
func FailedPaths(r *doctor.RunResult) []string {
	var failed []string
	for _, res := range r.Ordered() {
		if res.Outcome == doctor.OutcomeFailed {
			failed = append(failed, res.Target)
		}
	}
	return failed
}
