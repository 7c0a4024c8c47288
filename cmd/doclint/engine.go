package main

import (
	"context"
	"path/filepath"

	"github.com/raphi011/doclint/internal/analyze"
	"github.com/raphi011/doclint/internal/cache"
	"github.com/raphi011/doclint/internal/config"
	"github.com/raphi011/doclint/internal/fix"
	"github.com/raphi011/doclint/internal/lint"
	"github.com/raphi011/doclint/internal/log"
)

// cacheDir returns the configured cache directory or the default one.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.Dir()
}

// newEngine builds the lint engine and fix applier for cfg. A cache that
// cannot be opened is logged and skipped.
func newEngine(ctx context.Context, cfg *config.Config, noCache bool) (*lint.Engine, *fix.Applier, error) {
	l := log.FromContext(ctx)

	rules, err := analyze.Rules(cfg.AnalyzeOptions())
	if err != nil {
		return nil, nil, err
	}

	opts := []lint.Option{
		lint.WithInclude(cfg.Files.Include),
		lint.WithExclude(cfg.Files.Exclude),
	}
	var fixOpts []fix.Option

	dir, err := cacheDir(cfg)
	if err != nil {
		l.Debug("no cache dir", "err", err)
	} else {
		fixOpts = append(fixOpts, fix.WithLockDir(filepath.Join(dir, cache.LocksDir)))
		if !noCache && !cfg.Cache.Disabled {
			store, err := cache.Open(dir)
			if err != nil {
				l.Printf("Warning: analysis cache disabled: %v\n", err)
			} else {
				opts = append(opts, lint.WithCache(store, cache.Key))
			}
		}
	}

	return lint.New(rules, opts...), fix.New(rules, fixOpts...), nil
}
