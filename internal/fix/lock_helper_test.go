package fix

import (
	"testing"

	"github.com/raphi011/doclint/internal/cache"
)

// newHeldLock takes the lock at path and returns its release func.
func newHeldLock(t *testing.T, path string) func() {
	t.Helper()
	l := cache.NewFileLock(path)
	if err := l.Lock(); err != nil {
		t.Fatal(err)
	}
	return func() { _ = l.Unlock() }
}
