package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/ncenter/internal/config"
)

type reloadRecorder struct {
	mu      sync.Mutex
	configs []*config.DaemonConfig
	errs    []error
}

func (r *reloadRecorder) reloaded(cfg *config.DaemonConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, cfg)
}

func (r *reloadRecorder) failed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reloadRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs), len(r.errs)
}

func startTestWatcher(t *testing.T, path string) (*ConfigWatcher, *reloadRecorder) {
	t.Helper()
	w, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	rec := &reloadRecorder{}
	w.SetReloadCallback(rec.reloaded)
	w.SetErrorCallback(rec.failed)

	require.NoError(t, w.Start(context.Background(), config.DefaultDaemonConfig()))
	t.Cleanup(w.Stop)
	return w, rec
}

func TestConfigWatcher_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ncenterd.toml")
	w, rec := startTestWatcher(t, path)
	assert.Equal(t, path, w.Path())

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nmax_notifications = 2\n"), 0644))

	assert.Eventually(t, func() bool {
		n, _ := rec.counts()
		return n >= 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, w.GetCurrentConfig().Stack.MaxNotifications)
}

func TestConfigWatcher_InvalidKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ncenterd.toml")
	w, rec := startTestWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nwidth = 1\n"), 0644))

	assert.Eventually(t, func() bool {
		_, n := rec.counts()
		return n >= 1
	}, 5*time.Second, 10*time.Millisecond)
	reloads, _ := rec.counts()
	assert.Zero(t, reloads)
	assert.Equal(t, config.DefaultDaemonConfig().Stack.Width, w.GetCurrentConfig().Stack.Width)
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	_, rec := startTestWatcher(t, filepath.Join(dir, "ncenterd.toml"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)

	reloads, errs := rec.counts()
	assert.Zero(t, reloads)
	assert.Zero(t, errs)
}

func TestConfigWatcher_StopIdempotent(t *testing.T) {
	w, err := NewConfigWatcher(filepath.Join(t.TempDir(), "c.toml"), nil)
	require.NoError(t, err)
	w.Stop()

	require.NoError(t, w.Start(context.Background(), nil))
	require.NoError(t, w.Start(context.Background(), nil))
	w.Stop()
	w.Stop()
}
