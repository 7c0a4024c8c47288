package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func mdOnly(_, path string) bool {
	return strings.HasSuffix(path, ".md")
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// collect runs w and gathers reported files until want are all seen or the
// deadline passes.
func collect(t *testing.T, w *Watcher, trigger func(), want ...string) []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(_ context.Context, files []string) { batches <- files })
	}()

	trigger()

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for {
		done := true
		for _, f := range want {
			if !seen[f] {
				done = false
			}
		}
		if done {
			break
		}
		select {
		case files := <-batches:
			for _, f := range files {
				seen[f] = true
			}
		case err := <-errc:
			t.Fatalf("Run() returned early: %v", err)
		case <-deadline:
			t.Fatalf("timed out; seen %v, want %v", seen, want)
		}
	}
	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Run() error = %v", err)
	}

	var out []string
	for f := range seen {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func TestWatcher_ReportsMatchingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond), WithFilter(mdOnly))
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	a := filepath.Join(dir, "a.md")
	c := filepath.Join(sub, "c.md")
	got := collect(t, w, func() {
		writeFile(t, a, "a\n")
		writeFile(t, filepath.Join(dir, "b.txt"), "b\n")
		writeFile(t, c, "c\n")
	}, a, c)

	if slices.Contains(got, filepath.Join(dir, "b.txt")) {
		t.Errorf("filtered file reported: %v", got)
	}
}

func TestWatcher_ExplicitFileIgnoresFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	writeFile(t, notes, "x\n")

	w := newWatcher(t, WithDebounce(20*time.Millisecond), WithFilter(mdOnly))
	if err := w.Add(notes); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got := collect(t, w, func() {
		writeFile(t, filepath.Join(dir, "sibling.md"), "s\n")
		writeFile(t, notes, "y\n")
	}, notes)

	if slices.Contains(got, filepath.Join(dir, "sibling.md")) {
		t.Errorf("sibling of watched file reported: %v", got)
	}
}

func TestWatcher_SkipsGitDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t)
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	for d := range w.dirs {
		if strings.Contains(d, ".git") {
			t.Errorf("watching %s", d)
		}
	}
	if _, ok := w.dirs[filepath.Join(dir, "docs")]; !ok {
		t.Error("docs not watched")
	}
}

func TestWatcher_HandleNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newWatcher(t)
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	newDir := filepath.Join(dir, "new")
	if err := os.Mkdir(newDir, 0o755); err != nil {
		t.Fatal(err)
	}

	pending := map[string]struct{}{}
	if w.handle(fsnotify.Event{Name: newDir, Op: fsnotify.Create}, pending) {
		t.Error("directory queued as a changed file")
	}
	if root := w.dirs[newDir]; root != dir {
		t.Errorf("new dir root = %q, want %q", root, dir)
	}

	file := filepath.Join(newDir, "x.md")
	writeFile(t, file, "x\n")
	if !w.handle(fsnotify.Event{Name: file, Op: fsnotify.Write}, pending) {
		t.Error("file in new directory not queued")
	}
}

func TestWatcher_HandleIgnoresRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newWatcher(t)
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	pending := map[string]struct{}{}
	if w.handle(fsnotify.Event{Name: filepath.Join(dir, "gone.md"), Op: fsnotify.Remove}, pending) {
		t.Error("remove event queued")
	}
}

func TestFlush_DropsMissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keep := filepath.Join(dir, "b.md")
	keep2 := filepath.Join(dir, "a.md")
	writeFile(t, keep, "")
	writeFile(t, keep2, "")

	pending := map[string]struct{}{
		keep:                          {},
		keep2:                         {},
		filepath.Join(dir, "gone.md"): {},
		dir:                           {},
	}
	got := flush(pending)
	want := []string{keep2, keep}
	if !slices.Equal(got, want) {
		t.Errorf("flush() = %v, want %v", got, want)
	}
	if len(pending) != 0 {
		t.Errorf("pending not drained: %v", pending)
	}
}

func TestAdd_MissingPath(t *testing.T) {
	t.Parallel()

	w := newWatcher(t)
	if err := w.Add(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Add() on missing path succeeded")
	}
}
