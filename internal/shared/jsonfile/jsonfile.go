// Package jsonfile guards access to small JSON documents on local disk.
//
// Every path gets exactly one lock per process, no matter how many callers
// ask for it, so independent stores pointing at the same file never interleave
// their reads and writes.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrLockTimeout is returned when the file lock could not be acquired before
// the context was done.
var ErrLockTimeout = errors.New("timed out waiting for file lock")

var (
	registryMu sync.Mutex
	registry   = map[string]*semaphore.Weighted{}
)

// lockFor returns the process-wide lock for path.
func lockFor(path string) *semaphore.Weighted {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if l := registry[key]; l != nil {
		return l
	}
	l := semaphore.NewWeighted(1)
	registry[key] = l
	return l
}

// WithLock runs fn while holding the lock for path. Waiting for the lock
// respects ctx; the lock is always released when fn returns.
func WithLock(ctx context.Context, path string, fn func() error) error {
	l := lockFor(path)
	if err := l.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLockTimeout, path, err)
	}
	defer l.Release(1)
	return fn()
}

// ReadFile reads path under its lock.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	var b []byte
	err := WithLock(ctx, path, func() error {
		var err error
		b, err = os.ReadFile(path)
		return err
	})
	return b, err
}

// WriteFileAtomic replaces path with data. The caller must hold the lock for
// path (see WithLock).
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
