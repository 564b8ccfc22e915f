package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// MinExpireTimeout is the shortest expiry the daemon will schedule. A zero
// or negative default timeout is clamped to it.
const MinExpireTimeout = 500 * time.Millisecond

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "10s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Plain integers are milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for ncenterd.
// Loaded from ~/.config/ncenter/ncenterd.toml
type DaemonConfig struct {
	Stack    StackConfig    `toml:"stack" yaml:"stack"`
	Timeouts TimeoutConfig  `toml:"timeouts" yaml:"timeouts"`
	Audio    AudioConfig    `toml:"audio" yaml:"audio"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Behavior BehaviorConfig `toml:"behavior" yaml:"behavior"`
	Theme    ThemeConfig    `toml:"theme" yaml:"theme"`
}

// StackConfig controls how many popups are shown and where they go.
type StackConfig struct {
	MaxNotifications int `toml:"max_notifications" yaml:"max_notifications"` // Capacity; 0 shows nothing
	Width            int `toml:"width" yaml:"width"`                         // Popup width in pixels
	Height           int `toml:"height" yaml:"height"`                       // Popup height in pixels
	VerticalMargin   int `toml:"vertical_margin" yaml:"vertical_margin"`     // Gap above the first popup and between popups
	HorizontalMargin int `toml:"horizontal_margin" yaml:"horizontal_margin"` // Gap from the screen edge
}

// TimeoutConfig controls popup expiry.
type TimeoutConfig struct {
	RespectNotificationTimeout bool     `toml:"respect_notification_timeout" yaml:"respect_notification_timeout"`
	LocalExpireTimeout         Duration `toml:"local_expire_timeout" yaml:"local_expire_timeout"`
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Volume  int    `toml:"volume" yaml:"volume"` // 0-100
	Sound   string `toml:"sound" yaml:"sound"`   // Played when the sender gives no sound-file hint
}

// HistoryConfig controls the notification history log.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"` // Empty = $XDG_DATA_HOME/ncenter/history.jsonl
}

// BehaviorConfig contains behavior settings.
type BehaviorConfig struct {
	NotifyOnReload bool `toml:"notify_on_reload" yaml:"notify_on_reload"` // Show a popup when the config is reloaded
}

// ThemeConfig selects the popup stylesheet.
type ThemeConfig struct {
	Name string `toml:"name" yaml:"name"` // Bundled theme or a file in ~/.config/ncenter/themes
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Stack: StackConfig{
			MaxNotifications: 5,
			Width:            400,
			Height:           100,
			VerticalMargin:   10,
			HorizontalMargin: 10,
		},
		Timeouts: TimeoutConfig{
			RespectNotificationTimeout: true,
			LocalExpireTimeout:         Duration(5 * time.Second),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Behavior: BehaviorConfig{
			NotifyOnReload: true,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ncenter", "ncenterd.toml"), nil
}

// LoadDaemonConfig loads the daemon configuration from the default path.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadDaemonConfigFrom(path)
}

// LoadDaemonConfigFrom loads the daemon configuration from path.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfigFrom(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig writes the configuration to path.
func SaveDaemonConfig(config *DaemonConfig, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if c.Stack.MaxNotifications < 0 || c.Stack.MaxNotifications > 50 {
		return fmt.Errorf("max_notifications must be between 0 and 50, got %d", c.Stack.MaxNotifications)
	}
	if c.Stack.Width < 50 || c.Stack.Width > 2000 {
		return fmt.Errorf("width must be between 50 and 2000, got %d", c.Stack.Width)
	}
	if c.Stack.Height < 20 || c.Stack.Height > 1000 {
		return fmt.Errorf("height must be between 20 and 1000, got %d", c.Stack.Height)
	}
	if c.Stack.VerticalMargin < 0 {
		return fmt.Errorf("vertical_margin cannot be negative, got %d", c.Stack.VerticalMargin)
	}
	if c.Stack.HorizontalMargin < 0 {
		return fmt.Errorf("horizontal_margin cannot be negative, got %d", c.Stack.HorizontalMargin)
	}
	if c.Timeouts.LocalExpireTimeout.Duration() < MinExpireTimeout {
		return fmt.Errorf("local_expire_timeout must be at least %s, got %s",
			MinExpireTimeout, c.Timeouts.LocalExpireTimeout.Duration())
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// HistoryPath returns the configured history log path, falling back to the
// default location under the data directory.
func (c *DaemonConfig) HistoryPath() string {
	if c.History.Path != "" {
		return expandPath(c.History.Path)
	}
	return DefaultHistoryPath()
}

// SoundPath returns the configured default sound with ~ expanded.
func (c *DaemonConfig) SoundPath() string {
	return expandPath(c.Audio.Sound)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
