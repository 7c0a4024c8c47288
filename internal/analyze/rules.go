package analyze

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Rule names.
const (
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleTabs               = "tabs"
	RuleCRLF               = "crlf"
	RuleLineLength         = "line-length"
	RuleTodo               = "todo"
	RuleFinalNewline       = "final-newline"
)

// Defaults for configurable rules.
const (
	DefaultMaxLineLength = 100
	DefaultTabWidth      = 4
)

// Rule checks a single line.
type Rule interface {
	Name() string
	Check(l Line) *Finding
}

// FileRule is a rule that also looks at the end of the input.
type FileRule interface {
	Rule
	CheckEnd(last Line) *Finding
}

// Fixable is implemented by rules that can rewrite a violating line.
// Fix must return a line that no longer violates the rule.
type Fixable interface {
	Rule
	Fix(l Line) Line
}

// Options tunes the rule set.
type Options struct {
	Enable        []string // empty means all rules
	Disable       []string
	MaxLineLength int
	TabWidth      int
}

// Names returns every built-in rule name, sorted.
func Names() []string {
	names := []string{
		RuleCRLF, RuleFinalNewline, RuleLineLength,
		RuleTabs, RuleTodo, RuleTrailingWhitespace,
	}
	slices.Sort(names)
	return names
}

// New returns the built-in rule with the given name.
func New(name string, opts Options) (Rule, error) {
	switch name {
	case RuleTrailingWhitespace:
		return trailingWhitespace{}, nil
	case RuleTabs:
		return tabs{width: tabWidth(opts)}, nil
	case RuleCRLF:
		return crlf{}, nil
	case RuleLineLength:
		m := opts.MaxLineLength
		if m <= 0 {
			m = DefaultMaxLineLength
		}
		return lineLength{max: m, tabWidth: tabWidth(opts)}, nil
	case RuleTodo:
		return todo{}, nil
	case RuleFinalNewline:
		return finalNewline{}, nil
	}
	return nil, fmt.Errorf("unknown rule %q", name)
}

func tabWidth(opts Options) int {
	if opts.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return opts.TabWidth
}

// expandTabs replaces each tab with spaces up to the next tab stop and
// returns the expanded text and its display width.
func expandTabs(s string, width int) (string, int) {
	var b strings.Builder
	col := 0
	for _, c := range s {
		if c == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(c)
		col += runewidth.RuneWidth(c)
	}
	return b.String(), col
}

// Rules builds the rule set selected by opts, in Names order.
func Rules(opts Options) ([]Rule, error) {
	for _, name := range slices.Concat(opts.Enable, opts.Disable) {
		if !slices.Contains(Names(), name) {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
	}
	var rules []Rule
	for _, name := range Names() {
		if len(opts.Enable) > 0 && !slices.Contains(opts.Enable, name) {
			continue
		}
		if slices.Contains(opts.Disable, name) {
			continue
		}
		r, err := New(name, opts)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Fingerprint identifies a rule set and its settings. Findings computed with
// equal fingerprints are interchangeable.
func Fingerprint(rules []Rule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, fmt.Sprintf("%s%+v", r.Name(), r))
	}
	return strings.Join(parts, ";")
}

// IsFixable reports whether r can rewrite lines.
func IsFixable(r Rule) bool {
	_, ok := r.(Fixable)
	return ok
}

type trailingWhitespace struct{}

func (trailingWhitespace) Name() string { return RuleTrailingWhitespace }

func (r trailingWhitespace) Check(l Line) *Finding {
	trimmed := strings.TrimRight(l.Text, " \t")
	if trimmed == l.Text {
		return nil
	}
	return newFinding(r, l, len(trimmed)+1, "trailing whitespace")
}

func (trailingWhitespace) Fix(l Line) Line {
	l.Text = strings.TrimRight(l.Text, " \t")
	return l
}

type tabs struct {
	width int
}

func (tabs) Name() string { return RuleTabs }

func (r tabs) Check(l Line) *Finding {
	i := strings.IndexByte(l.Text, '\t')
	if i < 0 {
		return nil
	}
	return newFinding(r, l, i+1, "tab character")
}

// Fix expands tabs to the next multiple of the tab width.
func (r tabs) Fix(l Line) Line {
	l.Text, _ = expandTabs(l.Text, r.width)
	return l
}

type crlf struct{}

func (crlf) Name() string { return RuleCRLF }

func (r crlf) Check(l Line) *Finding {
	if l.Ending != "\r\n" {
		return nil
	}
	return newFinding(r, l, len(l.Text)+1, "CRLF line ending")
}

func (crlf) Fix(l Line) Line {
	l.Ending = "\n"
	return l
}

type lineLength struct {
	max      int
	tabWidth int
}

func (lineLength) Name() string { return RuleLineLength }

func (r lineLength) Check(l Line) *Finding {
	// Tabs count up to the next tab stop.
	_, w := expandTabs(l.Text, r.tabWidth)
	if w <= r.max {
		return nil
	}
	return newFinding(r, l, r.max+1, fmt.Sprintf("line is %d columns, limit %d", w, r.max))
}

var todoPattern = regexp.MustCompile(`\b(TODO|FIXME|XXX)\b`)

type todo struct{}

func (todo) Name() string { return RuleTodo }

func (r todo) Check(l Line) *Finding {
	loc := todoPattern.FindStringIndex(l.Text)
	if loc == nil {
		return nil
	}
	return newFinding(r, l, loc[0]+1, "unresolved "+l.Text[loc[0]:loc[1]]+" marker")
}

type finalNewline struct{}

func (finalNewline) Name() string { return RuleFinalNewline }

func (finalNewline) Check(Line) *Finding { return nil }

func (r finalNewline) CheckEnd(last Line) *Finding {
	if last.Ending != "" {
		return nil
	}
	return newFinding(r, last, len(last.Text)+1, "missing final newline")
}

func (finalNewline) Fix(l Line) Line {
	if l.Ending == "" {
		l.Ending = "\n"
	}
	return l
}
