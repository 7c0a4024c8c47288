package config

import (
	"context"
	"sync"
)

// resolverKey is the context key for ConfigResolver
type resolverKey struct{}

// ConfigResolver provides lazy per-directory config resolution with caching.
// It finds the nearest .doclint.toml and merges it with the global config.
type ConfigResolver struct {
	global *Config
	mu     sync.Mutex
	cache  map[string]*Config // project root ("" for none) -> merged config
}

// NewResolver creates a new ConfigResolver backed by the given global config.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ConfigForDir returns the effective config for dir: the global config
// merged with the nearest .doclint.toml at or above dir. Results are cached
// per project root.
func (r *ConfigResolver) ConfigForDir(dir string) (*Config, error) {
	root, err := FindLocal(dir)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[root]; ok {
		return cached, nil
	}

	var local *LocalConfig
	if root != "" {
		local, err = LoadLocal(root)
		if err != nil {
			return nil, err
		}
	}

	merged := MergeLocal(r.global, local)
	r.cache[root] = merged
	return merged, nil
}

// Global returns the global config (without any local overrides).
func (r *ConfigResolver) Global() *Config {
	return r.global
}

// WithResolver returns a new context with the ConfigResolver stored in it.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context.
// Returns nil if no resolver is stored.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	if r, ok := ctx.Value(resolverKey{}).(*ConfigResolver); ok {
		return r
	}
	return nil
}
