// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Shared holds the current daemon configuration for concurrent readers.
// Writers replace the whole value; readers must treat the returned
// config as read-only.
type Shared struct {
	mu  sync.RWMutex
	cfg *DaemonConfig
}

// NewShared returns a holder for cfg. A nil cfg is replaced with defaults.
func NewShared(cfg *DaemonConfig) *Shared {
	if cfg == nil {
		cfg = DefaultDaemonConfig()
	}
	return &Shared{cfg: cfg}
}

// Get returns the current configuration.
func (s *Shared) Get() *DaemonConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set swaps in a new configuration. Nil is ignored.
func (s *Shared) Set(cfg *DaemonConfig) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ncenter")
}

// DefaultHistoryPath returns the path to the history JSONL file.
func DefaultHistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// RuntimePath returns the directory for runtime files such as the daemon lock.
// Uses XDG_RUNTIME_DIR if set, otherwise the system temp directory.
func RuntimePath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return filepath.Join(runtimeDir, "ncenter")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
