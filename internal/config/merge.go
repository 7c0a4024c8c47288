package config

import "slices"

// MergeLocal returns a new Config with local overrides applied on top of
// global. Global is never mutated.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	merged := *global
	merged.Rules.Enable = slices.Clone(global.Rules.Enable)
	merged.Rules.Disable = slices.Clone(global.Rules.Disable)
	merged.Files.Include = slices.Clone(global.Files.Include)
	merged.Files.Exclude = slices.Clone(global.Files.Exclude)

	if local == nil {
		return &merged
	}

	if local.Doctor.Concurrency != nil {
		merged.Doctor.Concurrency = *local.Doctor.Concurrency
	}
	if local.Doctor.FailFast != nil {
		merged.Doctor.FailFast = *local.Doctor.FailFast
	}

	if local.Rules.Enable != nil {
		merged.Rules.Enable = slices.Clone(local.Rules.Enable)
	}
	if len(local.Rules.Disable) > 0 {
		merged.Rules.Disable = appendUnique(global.Rules.Disable, local.Rules.Disable)
	}
	if local.Rules.MaxLineLength != nil {
		merged.Rules.MaxLineLength = *local.Rules.MaxLineLength
	}
	if local.Rules.TabWidth != nil {
		merged.Rules.TabWidth = *local.Rules.TabWidth
	}

	if local.Files.Include != nil {
		merged.Files.Include = slices.Clone(local.Files.Include)
	}
	if len(local.Files.Exclude) > 0 {
		merged.Files.Exclude = appendUnique(global.Files.Exclude, local.Files.Exclude)
	}

	return &merged
}

// appendUnique appends items from extra to base, skipping duplicates.
// Returns a new slice (never mutates base).
func appendUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}

	result := make([]string, len(base))
	copy(result, base)

	for _, v := range extra {
		if !seen[v] {
			result = append(result, v)
			seen[v] = true
		}
	}

	return result
}
