package lint

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/raphi011/doclint/internal/analyze"
	"github.com/raphi011/doclint/internal/doctor"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func defaultRules(t *testing.T) []analyze.Rule {
	t.Helper()
	rules, err := analyze.Rules(analyze.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

func TestEvaluate_File(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"notes.log": "ok\nbad \n"})
	e := New(defaultRules(t))

	// Explicit files are analyzed even when they do not match the includes.
	diags, err := e.Evaluate(context.Background(), filepath.Join(root, "notes.log"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := []doctor.Diagnostic{{
		Kind: analyze.RuleTrailingWhitespace, Message: "trailing whitespace", Fixable: true, Line: 2,
	}}
	if !slices.Equal(diags, want) {
		t.Errorf("diagnostics = %+v, want %+v", diags, want)
	}
}

func TestEvaluate_CleanFile(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": "# fine\n"})
	diags, err := New(defaultRules(t)).Evaluate(context.Background(), filepath.Join(root, "a.md"))
	if err != nil {
		t.Fatal(err)
	}
	if diags != nil {
		t.Errorf("diagnostics = %+v, want none", diags)
	}
}

func TestEvaluate_Directory(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"b.md":             "tab\there\n",
		"a.md":             "trailing \n",
		"sub/c.txt":        "TODO later\n",
		"code.go":          "package x \n",
		".git/config.md":   "ignored \n",
		"vendor/dep.md":    "skipped \n",
		"image.md":         "\x00\x01 \n",
		"sub/deeper/ok.md": "fine\n",
	})
	e := New(defaultRules(t), WithExclude([]string{"vendor"}))

	diags, err := e.Evaluate(context.Background(), root)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	var got []string
	for _, d := range diags {
		rel, _ := filepath.Rel(root, d.File)
		got = append(got, filepath.ToSlash(rel)+":"+d.Kind)
	}
	want := []string{
		"a.md:" + analyze.RuleTrailingWhitespace,
		"b.md:" + analyze.RuleTabs,
		"sub/c.txt:" + analyze.RuleTodo,
	}
	if !slices.Equal(got, want) {
		t.Errorf("diagnostics = %v, want %v", got, want)
	}
}

func TestEvaluate_Missing(t *testing.T) {
	t.Parallel()

	_, err := New(defaultRules(t)).Evaluate(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
}

func TestEvaluate_CancelledContext(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(defaultRules(t)).Evaluate(ctx, root); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	e := New(nil, WithInclude([]string{"*.md", "docs/*.txt"}), WithExclude([]string{"CHANGELOG.md"}))
	tests := []struct {
		rel  string
		want bool
	}{
		{"README.md", true},
		{"deep/dir/guide.md", true},
		{"CHANGELOG.md", false},
		{"docs/notes.txt", true},
		{"other/notes.txt", false},
		{"main.go", false},
	}
	for _, tt := range tests {
		if got := e.Accepts(tt.rel); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]analyze.Finding
	hits    int
	puts    int
}

func (c *memCache) Get(_ context.Context, key string) (analyze.Status, []analyze.Finding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return analyze.StatusIssues, f, ok
}

func (c *memCache) Put(_ context.Context, key string, _ analyze.Status, findings []analyze.Finding) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = findings
	c.puts++
	return nil
}

func TestAnalyzeFile_UsesCache(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.md": "x \n"})
	file := filepath.Join(root, "a.md")
	c := &memCache{entries: map[string][]analyze.Finding{}}
	key := func(content []byte, fp string) string { return fp + "|" + string(content) }
	e := New(defaultRules(t), WithCache(c, key))
	ctx := context.Background()

	first, err := e.AnalyzeFile(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.AnalyzeFile(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first, second) {
		t.Errorf("cached findings differ: %v vs %v", first, second)
	}
	if c.puts != 1 || c.hits != 1 {
		t.Errorf("puts = %d hits = %d, want 1 and 1", c.puts, c.hits)
	}

	// Changed content misses.
	if err := os.WriteFile(file, []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := e.AnalyzeFile(ctx, file)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || c.puts != 2 {
		t.Errorf("after edit: findings = %v puts = %d", got, c.puts)
	}
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	if got := Diagnostics("a.md", nil); got != nil {
		t.Errorf("Diagnostics(nil) = %v, want nil", got)
	}
	got := Diagnostics("a.md", []analyze.Finding{{Rule: "todo", Line: 3, Message: "m"}})
	want := []doctor.Diagnostic{{Kind: "todo", Message: "m", File: "a.md", Line: 3}}
	if !slices.Equal(got, want) {
		t.Errorf("Diagnostics() = %+v, want %+v", got, want)
	}
}
