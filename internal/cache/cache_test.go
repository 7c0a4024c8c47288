package cache

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/doclint/internal/analyze"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "doclint"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	key := Key([]byte("hello \n"), "rules-v1")
	want := []analyze.Finding{
		{Rule: analyze.RuleTrailingWhitespace, Line: 1, Column: 6, Message: "trailing whitespace", Fixable: true},
		{Rule: analyze.RuleTodo, Line: 7, Column: 1, Message: "unresolved TODO marker"},
	}

	if err := s.Put(ctx, key, analyze.StatusIssues, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	status, got, ok := s.Get(ctx, key)
	if !ok {
		t.Fatal("Get() miss after Put")
	}
	if status != analyze.StatusIssues {
		t.Errorf("status = %v, want issues", status)
	}
	if !slices.Equal(got, want) {
		t.Errorf("findings = %+v, want %+v", got, want)
	}
}

func TestStore_GetMiss(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	if _, _, ok := s.Get(context.Background(), Key([]byte("x"), "")); ok {
		t.Error("Get() hit on empty store")
	}
}

func TestStore_CorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	key := Key([]byte("x"), "")
	if err := s.Put(ctx, key, analyze.StatusClean, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.pathFor(key), []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.Get(ctx, key); ok {
		t.Error("Get() hit on corrupt entry")
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	keys := []string{Key([]byte("a"), ""), Key([]byte("b"), "")}
	for _, k := range keys {
		if err := s.Put(ctx, k, analyze.StatusClean, nil); err != nil {
			t.Fatal(err)
		}
	}
	lockFile := filepath.Join(s.dir, LocksDir, "held.lock")
	if err := os.MkdirAll(filepath.Dir(lockFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lockFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for _, k := range keys {
		if _, _, ok := s.Get(ctx, k); ok {
			t.Errorf("key %s survived Clear", k[:8])
		}
	}
	if _, err := os.Stat(lockFile); err != nil {
		t.Errorf("lock file removed by Clear: %v", err)
	}
	// The store stays usable.
	if err := s.Put(ctx, keys[0], analyze.StatusClean, nil); err != nil {
		t.Errorf("Put() after Clear error = %v", err)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := Key([]byte("content"), "fp")
	if len(base) != 64 {
		t.Errorf("key length = %d, want 64", len(base))
	}
	if Key([]byte("content"), "fp") != base {
		t.Error("Key() not deterministic")
	}
	if Key([]byte("content!"), "fp") == base {
		t.Error("content change should change the key")
	}
	if Key([]byte("content"), "fp2") == base {
		t.Error("fingerprint change should change the key")
	}
	// The separator keeps fingerprint and content apart.
	if Key([]byte("bc"), "a") == Key([]byte("c"), "ab") {
		t.Error("fingerprint/content boundary is ambiguous")
	}
}
