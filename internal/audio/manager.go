package audio

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/model"
)

// Manager decides which sound a notification plays.
type Manager struct {
	logger *slog.Logger
	player *Player
	config *config.Shared
}

// NewManager creates a new audio manager reading settings from cfg.
func NewManager(cfg *config.Shared, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.NewShared(nil)
	}
	m := &Manager{
		logger: logger,
		player: NewPlayer(logger),
		config: cfg,
	}
	m.Reload()
	return m
}

// Reload applies the current volume and drops cached sounds so edited
// files are decoded again.
func (m *Manager) Reload() {
	cfg := m.config.Get()
	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
	m.player.ClearCache()

	if path := cfg.SoundPath(); cfg.Audio.Enabled && path != "" {
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "path", path)
		}
	}
	m.logger.Debug("audio manager reloaded", "enabled", cfg.Audio.Enabled, "volume", cfg.Audio.Volume)
}

// PlayFor plays the sound for n, if any.
func (m *Manager) PlayFor(n model.Notification) error {
	path := SoundFor(n, m.config.Get())
	if path == "" {
		return nil
	}
	if err := m.player.Play(path); err != nil {
		m.logger.Debug("failed to play notification sound", "id", n.ID, "path", path, "error", err)
		return err
	}
	return nil
}

// Stop shuts down the audio manager.
func (m *Manager) Stop() {
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// SoundFor returns the sound file n should play under cfg, or "" for none.
func SoundFor(n model.Notification, cfg *config.DaemonConfig) string {
	if cfg == nil || !cfg.Audio.Enabled || n.SuppressSound {
		return ""
	}
	if n.SoundFile != "" {
		return expandPath(n.SoundFile)
	}
	if n.SoundName != "" {
		if path := LookupSoundName(n.SoundName); path != "" {
			return path
		}
	}
	return cfg.SoundPath()
}

// soundExtensions are tried in order when resolving a sound name.
var soundExtensions = []string{".oga", ".ogg", ".wav", ".mp3"}

// LookupSoundName finds a named sound in the freedesktop sound theme
// under the XDG data directories. It returns "" when nothing matches.
func LookupSoundName(name string) string {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return ""
	}
	for _, dir := range soundDirs() {
		for _, ext := range soundExtensions {
			path := filepath.Join(dir, name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// soundDirs lists the freedesktop theme directories, user data first.
func soundDirs() []string {
	var bases []string
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		bases = append(bases, dataHome)
	} else if home, err := os.UserHomeDir(); err == nil {
		bases = append(bases, filepath.Join(home, ".local", "share"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	bases = append(bases, filepath.SplitList(dataDirs)...)

	dirs := make([]string, 0, len(bases))
	for _, base := range bases {
		if base != "" {
			dirs = append(dirs, filepath.Join(base, "sounds", "freedesktop", "stereo"))
		}
	}
	return dirs
}

// expandPath expands ~ to the home directory and strips a file:// scheme.
func expandPath(path string) string {
	path = strings.TrimPrefix(path, "file://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
