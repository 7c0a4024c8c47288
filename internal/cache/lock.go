package cache

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often LockContext polls a held lock.
const lockRetry = 20 * time.Millisecond

// FileLock provides exclusive file-based locking.
type FileLock struct {
	fl *flock.Flock
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path)}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.fl.Path()
}

// Lock acquires an exclusive lock on the file.
// Blocks until the lock is acquired.
func (l *FileLock) Lock() error {
	return l.fl.Lock()
}

// LockContext acquires the lock, giving up when ctx is done.
func (l *FileLock) LockContext(ctx context.Context) error {
	ok, err := l.fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.Err()
	}
	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	return l.fl.Unlock()
}
