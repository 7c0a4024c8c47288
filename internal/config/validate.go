package config

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/doclint/internal/analyze"
)

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"default", "dracula", "nord"}

// Validate checks every field and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	if c.Doctor.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("doctor.concurrency must be >= 0, got %d", c.Doctor.Concurrency))
	}
	if c.Rules.MaxLineLength < 0 {
		errs = append(errs, fmt.Errorf("rules.max_line_length must be >= 0, got %d", c.Rules.MaxLineLength))
	}
	if c.Rules.TabWidth < 0 {
		errs = append(errs, fmt.Errorf("rules.tab_width must be >= 0, got %d", c.Rules.TabWidth))
	}
	errs = append(errs, validateRuleNames(c.Rules.Enable, "rules.enable")...)
	errs = append(errs, validateRuleNames(c.Rules.Disable, "rules.disable")...)
	errs = append(errs, validatePatterns(c.Files.Include, "files.include")...)
	errs = append(errs, validatePatterns(c.Files.Exclude, "files.exclude")...)
	if err := validateEnum(c.UI.Theme, "ui.theme", ValidThemes); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// validateRuleNames rejects unknown rule names, suggesting the closest
// known one.
func validateRuleNames(names []string, field string) []error {
	known := analyze.Names()
	var errs []error
	for _, name := range names {
		if slices.Contains(known, name) {
			continue
		}
		msg := fmt.Sprintf("unknown rule %q in %s", name, field)
		if s := Suggest(name, known); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		errs = append(errs, errors.New(msg))
	}
	return errs
}

// Suggest returns the candidate that best fuzzy-matches input, or "".
func Suggest(input string, candidates []string) string {
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		// Retry with a shorter prefix so a single typo still matches.
		if len(input) > 3 {
			matches = fuzzy.Find(input[:len(input)/2], candidates)
		}
		if len(matches) == 0 {
			return ""
		}
	}
	return matches[0].Str
}

// validatePatterns checks that all patterns are valid path.Match syntax.
func validatePatterns(patterns []string, field string) []error {
	var errs []error
	for i, pat := range patterns {
		if _, err := path.Match(pat, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s[%d] %q: %w", field, i, pat, err))
		}
	}
	return errs
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
