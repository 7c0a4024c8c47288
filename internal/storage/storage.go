// Package storage provides atomic file writes for doclint's fixes and its
// on-disk analysis cache.
package storage

import (
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteAtomic writes data to path through a temp file in the same
// directory, then renames it into place. Readers never see a partial file.
// The parent directory is created if needed.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// SaveMsgpack atomically writes data as msgpack to path.
func SaveMsgpack(path string, data any) error {
	b, err := msgpack.Marshal(data)
	if err != nil {
		return err
	}
	return WriteAtomic(path, b, 0o600)
}

// LoadMsgpack reads msgpack from path into dest.
// Returns os.ErrNotExist if file doesn't exist (caller should handle).
func LoadMsgpack(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, dest)
}
