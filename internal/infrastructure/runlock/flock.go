package runlock

import (
	"fmt"

	"github.com/gofrs/flock"

	"ArticleComposer/internal/ports"
)

// FileLock keeps a single generation run per lock file.
type FileLock struct {
	lock *flock.Flock
}

var _ ports.RunLock = (*FileLock)(nil)

// New builds a lock on path; the file is created on first use.
func New(path string) *FileLock {
	return &FileLock{lock: flock.New(path)}
}

// TryLock acquires the lock without blocking.
func (f *FileLock) TryLock() (bool, error) {
	ok, err := f.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", f.lock.Path(), err)
	}
	return ok, nil
}

// Unlock releases the lock.
func (f *FileLock) Unlock() error {
	if err := f.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", f.lock.Path(), err)
	}
	return nil
}
