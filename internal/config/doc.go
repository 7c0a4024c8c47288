// Package config handles loading and validation of doclint configuration.
//
// Configuration is read from ~/.config/doclint/config.toml, overlaid by the
// nearest .doclint.toml found walking up from the working directory, then
// by environment variables.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags (applied by the CLI, not this package)
//   - DOCLINT_CONCURRENCY, DOCLINT_AUTO_APPROVE, DOCLINT_FAIL_FAST env vars
//   - Local .doclint.toml
//   - Global config file
//   - Default values
//
// # Example
//
//	[doctor]
//	concurrency = 4
//	fail_fast = true
//
//	[rules]
//	disable = ["todo"]
//	max_line_length = 120
//
//	[files]
//	include = ["*.md"]
//	exclude = ["vendor", "CHANGELOG.md"]
//
// Unknown keys and unknown rule names are errors. Misspelled rule names get
// a "did you mean" suggestion.
package config
