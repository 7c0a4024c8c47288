// Package fix applies single-line fixes to files on disk.
//
// Each apply locks the file, re-reads it, re-checks the rule on the named
// line and rewrites the file atomically. A line that no longer violates the
// rule is left alone, so applying the same diagnostic twice is harmless.
package fix

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/doclint/internal/analyze"
	"github.com/raphi011/doclint/internal/cache"
	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/storage"
)

// ErrNotFixable is returned for diagnostics no rule can rewrite.
var ErrNotFixable = errors.New("no fix available")

// Applier implements doctor.Fixer using the analyze rules.
type Applier struct {
	rules   map[string]analyze.Fixable
	lockDir string
}

var _ doctor.Fixer = (*Applier)(nil)

// Option configures an Applier.
type Option func(*Applier)

// WithLockDir sets where per-file lock files are kept.
func WithLockDir(dir string) Option {
	return func(a *Applier) { a.lockDir = dir }
}

// New returns an applier that can fix the fixable rules in rules.
func New(rules []analyze.Rule, opts ...Option) *Applier {
	a := &Applier{
		rules:   make(map[string]analyze.Fixable),
		lockDir: filepath.Join(os.TempDir(), "doclint-locks"),
	}
	for _, r := range rules {
		if fx, ok := r.(analyze.Fixable); ok {
			a.rules[r.Name()] = fx
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// lockPath names the lock file for file. Lock files are never removed:
// unlinking a lock another process is waiting on would let two writers in.
func (a *Applier) lockPath(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.lockDir, 0o755); err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(a.lockDir, hex.EncodeToString(sum[:])+".lock"), nil
}

// Apply fixes d in target, or in d.File when set.
func (a *Applier) Apply(ctx context.Context, target string, d doctor.Diagnostic) error {
	rule, ok := a.rules[d.Kind]
	if !ok || !d.Fixable {
		return fmt.Errorf("%s: %w", d.Kind, ErrNotFixable)
	}
	file := d.File
	if file == "" {
		file = target
	}

	lockPath, err := a.lockPath(file)
	if err != nil {
		return err
	}
	lock := cache.NewFileLock(lockPath)
	if err := lock.LockContext(ctx); err != nil {
		return fmt.Errorf("lock %s: %w", file, err)
	}
	defer lock.Unlock() //nolint:errcheck // best-effort release

	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	lines, err := analyze.ReadLines(bytes.NewReader(content))
	if err != nil {
		return err
	}
	if d.Line < 1 || d.Line > len(lines) {
		return fmt.Errorf("line %d out of range (file has %d lines)", d.Line, len(lines))
	}

	i := d.Line - 1
	if !violates(rule, lines, i) {
		log.FromContext(ctx).Debug("fix already applied", "file", file, "line", d.Line, "rule", d.Kind)
		return nil
	}
	lines[i] = rule.Fix(lines[i])
	if violates(rule, lines, i) {
		return fmt.Errorf("%s fix did not resolve line %d", d.Kind, d.Line)
	}

	return storage.WriteAtomic(file, analyze.Join(lines), info.Mode().Perm())
}

func violates(r analyze.Rule, lines []analyze.Line, i int) bool {
	if r.Check(lines[i]) != nil {
		return true
	}
	if fr, ok := r.(analyze.FileRule); ok && i == len(lines)-1 {
		return fr.CheckEnd(lines[i]) != nil
	}
	return false
}
