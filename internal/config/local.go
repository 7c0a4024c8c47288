package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project config file name.
const LocalConfigFileName = ".doclint.toml"

// LocalConfig holds per-project overrides from .doclint.toml.
// Pointer fields and nil slices indicate "not set" (inherit from global).
type LocalConfig struct {
	Doctor LocalDoctor `toml:"doctor"`
	Rules  LocalRules  `toml:"rules"`
	Files  FilesConfig `toml:"files"` // include replaces, exclude is appended
}

// LocalDoctor holds local doctor overrides. Auto-approval can only be set
// globally.
type LocalDoctor struct {
	Concurrency *int  `toml:"concurrency"`
	FailFast    *bool `toml:"fail_fast"`
}

// LocalRules holds local rule overrides.
type LocalRules struct {
	Enable        []string `toml:"enable"`  // replaces global when set
	Disable       []string `toml:"disable"` // appended to global
	MaxLineLength *int     `toml:"max_line_length"`
	TabWidth      *int     `toml:"tab_width"`
}

// LoadLocal reads a .doclint.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	md, err := toml.Decode(string(data), &local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}
	if err := checkUndecoded(md, configFile); err != nil {
		return nil, err
	}
	if err := local.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return &local, nil
}

func (l *LocalConfig) validate() error {
	var errs []error
	if l.Doctor.Concurrency != nil && *l.Doctor.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("doctor.concurrency must be >= 0, got %d", *l.Doctor.Concurrency))
	}
	if l.Rules.MaxLineLength != nil && *l.Rules.MaxLineLength < 0 {
		errs = append(errs, fmt.Errorf("rules.max_line_length must be >= 0, got %d", *l.Rules.MaxLineLength))
	}
	if l.Rules.TabWidth != nil && *l.Rules.TabWidth < 0 {
		errs = append(errs, fmt.Errorf("rules.tab_width must be >= 0, got %d", *l.Rules.TabWidth))
	}
	errs = append(errs, validateRuleNames(l.Rules.Enable, "rules.enable")...)
	errs = append(errs, validateRuleNames(l.Rules.Disable, "rules.disable")...)
	errs = append(errs, validatePatterns(l.Files.Include, "files.include")...)
	errs = append(errs, validatePatterns(l.Files.Exclude, "files.exclude")...)
	return errors.Join(errs...)
}

// FindLocal walks up from dir looking for .doclint.toml and returns the
// directory that holds it, or "" if none is found.
func FindLocal(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, LocalConfigFileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
