package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"

	"github.com/raphi011/doclint/internal/analyze"
	"github.com/raphi011/doclint/internal/log"
	"github.com/raphi011/doclint/internal/storage"
)

// LocksDir is the subdirectory of the cache dir that holds per-file fix
// locks. Clear leaves it alone.
const LocksDir = "locks"

// formatVersion is bumped whenever the entry layout changes.
const formatVersion = 1

// entry is the on-disk form of one file's findings.
type entry struct {
	Version  int
	Status   uint8
	Findings []finding
}

type finding struct {
	Rule    string
	Line    uint32
	Column  uint32
	Message string
	Fixable bool
}

// Store is an on-disk findings cache rooted at a directory.
type Store struct {
	dir string
}

// Dir returns the default cache directory.
func Dir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "doclint"), nil
}

// Open returns a store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Key derives the cache key for content analyzed with the given rule set
// fingerprint.
func Key(content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, key[:2], key+".msgpack")
}

func (s *Store) lock() *FileLock {
	return NewFileLock(filepath.Join(s.dir, ".lock"))
}

// Get returns the cached result for key. Any read or decode failure is a
// miss.
func (s *Store) Get(ctx context.Context, key string) (analyze.Status, []analyze.Finding, bool) {
	var e entry
	if err := storage.LoadMsgpack(s.pathFor(key), &e); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.FromContext(ctx).Debug("cache entry unreadable", "key", key, "err", err)
		}
		return 0, nil, false
	}
	if e.Version != formatVersion {
		return 0, nil, false
	}

	findings := make([]analyze.Finding, 0, len(e.Findings))
	for _, f := range e.Findings {
		findings = append(findings, analyze.Finding{
			Rule:    f.Rule,
			Line:    int(f.Line),
			Column:  int(f.Column),
			Message: f.Message,
			Fixable: f.Fixable,
		})
	}
	return analyze.Status(e.Status), findings, true
}

// Put stores the result for key.
func (s *Store) Put(ctx context.Context, key string, status analyze.Status, findings []analyze.Finding) error {
	st, err := safecast.Conv[uint8](int(status))
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	e := entry{Version: formatVersion, Status: st}
	for _, f := range findings {
		line, err := safecast.Conv[uint32](f.Line)
		if err != nil {
			return fmt.Errorf("encode line: %w", err)
		}
		col, err := safecast.Conv[uint32](f.Column)
		if err != nil {
			return fmt.Errorf("encode column: %w", err)
		}
		e.Findings = append(e.Findings, finding{
			Rule:    f.Rule,
			Line:    line,
			Column:  col,
			Message: f.Message,
			Fixable: f.Fixable,
		})
	}

	lock := s.lock()
	if err := lock.LockContext(ctx); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck // best-effort release

	return storage.SaveMsgpack(s.pathFor(key), e)
}

// Clear removes every entry. Lock files are kept.
func (s *Store) Clear(ctx context.Context) error {
	lock := s.lock()
	if err := lock.LockContext(ctx); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck // best-effort release

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == ".lock" || e.Name() == LocksDir {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
