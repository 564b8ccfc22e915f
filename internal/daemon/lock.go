package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/jmylchreest/ncenter/internal/config"
)

// ErrAlreadyRunning is returned when another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("ncenterd is already running")

// DefaultLockPath returns the path of the single-instance lock file.
func DefaultLockPath() string {
	return filepath.Join(config.RuntimePath(), "ncenterd.lock")
}

// InstanceLock guards against two daemons competing for the same bus name.
type InstanceLock struct {
	path string
	lock *flock.Flock
}

// NewInstanceLock returns a lock at path. Nothing is acquired yet.
func NewInstanceLock(path string) *InstanceLock {
	if path == "" {
		path = DefaultLockPath()
	}
	return &InstanceLock{path: path, lock: flock.New(path)}
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.path
}

// Acquire takes the lock without waiting.
func (l *InstanceLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	return nil
}

// Release drops the lock if held.
func (l *InstanceLock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
