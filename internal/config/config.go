package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/doclint/internal/analyze"
)

// DoctorConfig holds defaults for doctor runs.
type DoctorConfig struct {
	// Maximum number of paths processed at once. 0 means one per CPU.
	Concurrency int `toml:"concurrency" jsonschema:"minimum=0" jsonschema_description:"Paths processed at once; 0 means one per CPU"`
	// Stop launching new paths after the first failure.
	FailFast bool `toml:"fail_fast" jsonschema_description:"Stop launching new paths after the first failure"`
	// Apply every fix without asking.
	AutoApprove bool `toml:"auto_approve" jsonschema_description:"Apply every fix without asking"`
	// Prefix every output line with an RFC 3339 timestamp.
	Timestamps bool `toml:"timestamps" jsonschema_description:"Prefix output lines with RFC 3339 timestamps"`
}

// RulesConfig selects and tunes the analysis rules.
type RulesConfig struct {
	// Rules to run. Empty means all rules.
	Enable []string `toml:"enable"`
	// Rules to skip.
	Disable []string `toml:"disable"`
	// Display width limit for the line-length rule.
	MaxLineLength int `toml:"max_line_length" jsonschema:"minimum=0" jsonschema_description:"Display width limit for the line-length rule"`
	// Tab stop width used when expanding tabs.
	TabWidth int `toml:"tab_width" jsonschema:"minimum=0"`
}

// FilesConfig selects files inside directory targets.
type FilesConfig struct {
	// Glob patterns a file must match. Patterns without a slash match the base name.
	Include []string `toml:"include"`
	// Glob patterns for files and directories to skip.
	Exclude []string `toml:"exclude"`
}

// CacheConfig controls the analysis cache.
type CacheConfig struct {
	// Disable the analysis cache.
	Disabled bool `toml:"disabled"`
	// Cache directory. Defaults to the user cache directory.
	Dir string `toml:"dir"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	// Color theme: default, dracula or nord.
	Theme string `toml:"theme" jsonschema:"enum=default,enum=dracula,enum=nord"`
}

// Config holds the doclint configuration.
type Config struct {
	Doctor DoctorConfig `toml:"doctor"`
	Rules  RulesConfig  `toml:"rules"`
	Files  FilesConfig  `toml:"files"`
	Cache  CacheConfig  `toml:"cache"`
	UI     UIConfig     `toml:"ui"`
}

// Default values.
const (
	DefaultMaxLineLength = 100
	DefaultTabWidth      = 4
	DefaultTheme         = "default"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		Rules: RulesConfig{
			MaxLineLength: DefaultMaxLineLength,
			TabWidth:      DefaultTabWidth,
		},
		UI: UIConfig{Theme: DefaultTheme},
	}
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the global config file.
func Path() (string, error) {
	if p := os.Getenv("DOCLINT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "doclint", "config.toml"), nil
}

// Load reads the global config file.
// Returns Default() if file doesn't exist (no error).
// Returns error only if file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path, falling back to defaults for unset values.
// A missing file yields Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := checkUndecoded(md, path); err != nil {
		return Default(), err
	}

	if cfg.Cache.Dir != "" {
		expanded, err := expandPath(cfg.Cache.Dir)
		if err != nil {
			return Default(), fmt.Errorf("expand cache.dir: %w", err)
		}
		cfg.Cache.Dir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData, path string) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("%s: unknown key(s): %s", path, strings.Join(keys, ", "))
}

// ApplyEnv overlays DOCLINT_* environment variables onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("DOCLINT_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid DOCLINT_CONCURRENCY %q: must be a non-negative integer", v)
		}
		cfg.Doctor.Concurrency = n
	}
	if v := getenv("DOCLINT_AUTO_APPROVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOCLINT_AUTO_APPROVE %q: %w", v, err)
		}
		cfg.Doctor.AutoApprove = b
	}
	if v := getenv("DOCLINT_FAIL_FAST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOCLINT_FAIL_FAST %q: %w", v, err)
		}
		cfg.Doctor.FailFast = b
	}
	return nil
}

// Encode writes cfg as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

const defaultConfig = `# doclint configuration

[doctor]
# Paths processed at once (0 = one per CPU)
# concurrency = 0

# Stop starting new paths after the first failure
# fail_fast = false

# Apply fixes without asking (same as --yes)
# auto_approve = false

# Prefix output lines with RFC 3339 timestamps
# timestamps = false

[rules]
# Rules to run; empty runs all of:
# crlf, final-newline, line-length, tabs, todo, trailing-whitespace
# enable = []
# disable = ["todo"]
max_line_length = 100
tab_width = 4

[files]
# Patterns without a slash match the file name; others match the path
# relative to the directory being linted.
# include = ["*.md", "*.markdown", "*.txt", "*.rst"]
# exclude = ["vendor", "node_modules"]

[cache]
# disabled = false
# dir = "~/.cache/doclint"

[ui]
# default, dracula or nord
theme = "default"
`

// Init creates a default config file at the global config path.
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// AnalyzeOptions returns the rule selection for the analyze package.
func (c *Config) AnalyzeOptions() analyze.Options {
	return analyze.Options{
		Enable:        c.Rules.Enable,
		Disable:       c.Rules.Disable,
		MaxLineLength: c.Rules.MaxLineLength,
		TabWidth:      c.Rules.TabWidth,
	}
}
