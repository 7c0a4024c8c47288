// Package lint turns analysis findings into doctor diagnostics for files and
// directory trees.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/raphi011/doclint/internal/analyze"
	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/log"
)

// DefaultInclude selects the files linted inside a directory when no
// include patterns are configured.
var DefaultInclude = []string{"*.md", "*.markdown", "*.txt", "*.rst"}

// Cache short-circuits analysis of unchanged content.
type Cache interface {
	Get(ctx context.Context, key string) (analyze.Status, []analyze.Finding, bool)
	Put(ctx context.Context, key string, status analyze.Status, findings []analyze.Finding) error
}

// KeyFunc derives a cache key from file content and a rule set fingerprint.
type KeyFunc func(content []byte, fingerprint string) string

// Engine evaluates paths against a rule set. It is safe for concurrent use.
type Engine struct {
	rules       []analyze.Rule
	fingerprint string
	include     []string
	exclude     []string
	cache       Cache
	key         KeyFunc
}

var _ doctor.Evaluator = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithInclude sets the glob patterns a file inside a directory must match.
func WithInclude(patterns []string) Option {
	return func(e *Engine) {
		if len(patterns) > 0 {
			e.include = patterns
		}
	}
}

// WithExclude sets glob patterns for files and directories to skip.
func WithExclude(patterns []string) Option {
	return func(e *Engine) { e.exclude = patterns }
}

// WithCache enables the findings cache.
func WithCache(c Cache, key KeyFunc) Option {
	return func(e *Engine) {
		e.cache = c
		e.key = key
	}
}

// New creates an engine for rules.
func New(rules []analyze.Rule, opts ...Option) *Engine {
	e := &Engine{
		rules:       rules,
		fingerprint: analyze.Fingerprint(rules),
		include:     DefaultInclude,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() []analyze.Rule {
	return e.rules
}

// Evaluate analyzes path. A file is analyzed directly, whatever its name.
// A directory is walked and every matching file analyzed in lexical order;
// diagnostics then carry the file they belong to.
func (e *Engine) Evaluate(ctx context.Context, target string) ([]doctor.Diagnostic, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		findings, err := e.AnalyzeFile(ctx, target)
		if err != nil {
			return nil, err
		}
		return Diagnostics("", findings), nil
	}

	files, err := e.Files(ctx, target)
	if err != nil {
		return nil, err
	}
	var diags []doctor.Diagnostic
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings, err := e.AnalyzeFile(ctx, f)
		if err != nil {
			return nil, err
		}
		diags = append(diags, Diagnostics(f, findings)...)
	}
	return diags, nil
}

// Files lists the files under dir that the engine would analyze.
func (e *Engine) Files(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != dir && (d.Name() == ".git" || e.excluded(rel, d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if e.excluded(rel, d.Name()) || !matchAny(e.include, rel, d.Name()) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

// Accepts reports whether file, relative to a walked root, would be linted.
func (e *Engine) Accepts(rel string) bool {
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)
	return !e.excluded(rel, name) && matchAny(e.include, rel, name)
}

func (e *Engine) excluded(rel, name string) bool {
	return matchAny(e.exclude, rel, name)
}

// matchAny matches patterns against the base name, or against the
// slash-separated relative path when the pattern contains a slash.
func matchAny(patterns []string, rel, name string) bool {
	for _, pat := range patterns {
		subject := name
		if strings.Contains(pat, "/") {
			subject = rel
		}
		if ok, _ := path.Match(pat, subject); ok {
			return true
		}
	}
	return false
}

// AnalyzeFile returns the findings for a single file.
func (e *Engine) AnalyzeFile(ctx context.Context, file string) ([]analyze.Finding, error) {
	l := log.FromContext(ctx)

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = e.key(content, e.fingerprint)
		if status, findings, ok := e.cache.Get(ctx, key); ok {
			l.Debug("analyzed", "file", file, "status", status, "findings", len(findings), "cached", true)
			return findings, nil
		}
	}

	status, findings, err := analyze.ProcessLines(bytes.NewReader(content), e.rules)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	l.Debug("analyzed", "file", file, "status", status, "findings", len(findings), "cached", false)

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, status, findings); err != nil {
			l.Debug("cache write failed", "file", file, "err", err)
		}
	}
	return findings, nil
}

// Diagnostics converts findings for file into diagnostics. An empty file
// means the findings belong to the target itself.
func Diagnostics(file string, findings []analyze.Finding) []doctor.Diagnostic {
	if len(findings) == 0 {
		return nil
	}
	diags := make([]doctor.Diagnostic, 0, len(findings))
	for _, f := range findings {
		diags = append(diags, doctor.Diagnostic{
			Kind:    f.Rule,
			Message: f.Message,
			Fixable: f.Fixable,
			File:    file,
			Line:    f.Line,
		})
	}
	return diags
}
