package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process already holds the drill lock.
var ErrLocked = errors.New("another kotoba drill is already running")

// ProcessLock is an advisory file lock held for the lifetime of an
// interactive drill process, so two drills never interleave writes to
// the same weight maps.
type ProcessLock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the lock at path without blocking. It returns
// ErrLocked if another process holds it.
func AcquireLock(path string) (*ProcessLock, error) {
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &ProcessLock{path: path, lock: l}, nil
}

// Path returns the lock file path.
func (l *ProcessLock) Path() string {
	return l.path
}

// Release unlocks the file. Safe to call more than once.
func (l *ProcessLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
