// Package watch reports files that change under a set of watched paths,
// batching bursts of filesystem events.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/doclint/internal/log"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 200 * time.Millisecond

// Filter reports whether path, found under the watched directory root,
// is of interest.
type Filter func(root, path string) bool

// Watcher watches files and directory trees. Add every path before calling
// Run; a Watcher is not safe for concurrent use.
type Watcher struct {
	fsw      *fsnotify.Watcher
	filter   Filter
	debounce time.Duration

	dirs  map[string]string // watched dir -> root it was added under
	files map[string]bool   // explicitly watched files
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before changes are reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithFilter sets which files under watched directories are reported.
// Explicitly added files are always reported.
func WithFilter(f Filter) Option {
	return func(w *Watcher) { w.filter = f }
}

// New creates a Watcher. Close it when done.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		filter:   func(string, string) bool { return true },
		debounce: DefaultDebounce,
		dirs:     make(map[string]string),
		files:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Add watches path: a directory recursively (skipping .git), or a single
// file through its parent directory.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addTree(path, path)
	}
	w.files[path] = true
	return w.fsw.Add(filepath.Dir(path))
}

func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && p != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		w.dirs[p] = root
		return nil
	})
}

// Run delivers batches of changed files to fn until ctx is done. Each batch
// is sorted and contains only files that still exist.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context, files []string)) error {
	l := log.FromContext(ctx)
	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(ev, pending) {
				l.Debug("change", "file", ev.Name, "op", ev.Op.String())
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)

		case <-timer.C:
			if files := flush(pending); len(files) > 0 {
				fn(ctx, files)
			}
		}
	}
}

// handle records ev and reports whether a file was queued.
func (w *Watcher) handle(ev fsnotify.Event, pending map[string]struct{}) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if root, ok := w.dirs[filepath.Dir(ev.Name)]; ok && filepath.Base(ev.Name) != ".git" {
				_ = w.addTree(root, ev.Name)
			}
			return false
		}
	}
	if !w.accepts(ev.Name) {
		return false
	}
	pending[ev.Name] = struct{}{}
	return true
}

func (w *Watcher) accepts(path string) bool {
	if w.files[path] {
		return true
	}
	root, ok := w.dirs[filepath.Dir(path)]
	return ok && w.filter(root, path)
}

func flush(pending map[string]struct{}) []string {
	files := make([]string, 0, len(pending))
	for p := range pending {
		delete(pending, p)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	slices.Sort(files)
	return files
}
