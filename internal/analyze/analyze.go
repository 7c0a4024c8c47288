package analyze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Status classifies a whole input.
type Status int

const (
	StatusClean Status = iota
	StatusIssues
	StatusBinary
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusIssues:
		return "issues"
	case StatusBinary:
		return "binary"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Finding is one rule violation.
type Finding struct {
	Rule    string `json:"rule"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Fixable bool   `json:"fixable"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%d:%d %s: %s", f.Line, f.Column, f.Rule, f.Message)
}

func newFinding(r Rule, l Line, col int, msg string) *Finding {
	return &Finding{
		Rule:    r.Name(),
		Line:    l.Number,
		Column:  col,
		Message: msg,
		Fixable: IsFixable(r),
	}
}

// ProcessLines reads r to the end and checks every line against rules.
// Findings are ordered by line, then by rule order.
func ProcessLines(r io.Reader, rules []Rule) (Status, []Finding, error) {
	br := bufio.NewReaderSize(r, binarySniffLen)
	head, err := br.Peek(binarySniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return StatusClean, nil, err
	}
	if IsBinary(head) {
		return StatusBinary, nil, nil
	}

	lines, err := ReadLines(br)
	if err != nil {
		return StatusClean, nil, err
	}
	findings := Check(lines, rules)
	if len(findings) == 0 {
		return StatusClean, nil, nil
	}
	return StatusIssues, findings, nil
}

// ProcessText is ProcessLines over an in-memory string.
func ProcessText(text string, rules []Rule) (Status, []Finding, error) {
	return ProcessLines(strings.NewReader(text), rules)
}

// Check runs rules over already split lines.
func Check(lines []Line, rules []Rule) []Finding {
	var findings []Finding
	for _, l := range lines {
		for _, r := range rules {
			if f := r.Check(l); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	if len(lines) == 0 {
		return findings
	}
	last := lines[len(lines)-1]
	for _, r := range rules {
		if fr, ok := r.(FileRule); ok {
			if f := fr.CheckEnd(last); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	return findings
}
