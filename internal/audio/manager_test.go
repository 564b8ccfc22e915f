package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/model"
)

func TestSoundFor(t *testing.T) {
	enabled := config.DefaultDaemonConfig()
	enabled.Audio.Enabled = true
	enabled.Audio.Sound = "/usr/share/sounds/default.wav"

	disabled := config.DefaultDaemonConfig()
	disabled.Audio.Enabled = false
	disabled.Audio.Sound = "/usr/share/sounds/default.wav"

	tests := []struct {
		name string
		n    model.Notification
		cfg  *config.DaemonConfig
		want string
	}{
		{"configured sound", model.Notification{}, enabled, "/usr/share/sounds/default.wav"},
		{"hint wins", model.Notification{SoundFile: "/tmp/ping.ogg"}, enabled, "/tmp/ping.ogg"},
		{"file url hint", model.Notification{SoundFile: "file:///tmp/ping.ogg"}, enabled, "/tmp/ping.ogg"},
		{"suppressed", model.Notification{SoundFile: "/tmp/ping.ogg", SuppressSound: true}, enabled, ""},
		{"audio disabled", model.Notification{SoundFile: "/tmp/ping.ogg"}, disabled, ""},
		{"nil config", model.Notification{}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SoundFor(tt.n, tt.cfg))
		})
	}
}

func TestSoundFor_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.DefaultDaemonConfig()
	cfg.Audio.Enabled = true

	got := SoundFor(model.Notification{SoundFile: "~/sounds/a.wav"}, cfg)
	assert.Equal(t, filepath.Join(home, "sounds", "a.wav"), got)
}

func TestSoundFor_SoundName(t *testing.T) {
	dataHome := t.TempDir()
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_DATA_DIRS", dataDir)

	writeSound := func(base, file string) string {
		dir := filepath.Join(base, "sounds", "freedesktop", "stereo")
		require.NoError(t, os.MkdirAll(dir, 0755))
		path := filepath.Join(dir, file)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		return path
	}
	system := writeSound(dataDir, "message-new-instant.oga")
	user := writeSound(dataHome, "bell.wav")
	writeSound(dataDir, "bell.oga")

	cfg := config.DefaultDaemonConfig()
	cfg.Audio.Enabled = true
	cfg.Audio.Sound = "/usr/share/sounds/default.wav"

	tests := []struct {
		name string
		n    model.Notification
		want string
	}{
		{"system theme", model.Notification{SoundName: "message-new-instant"}, system},
		{"user data first", model.Notification{SoundName: "bell"}, user},
		{"unknown name falls back", model.Notification{SoundName: "nope"}, "/usr/share/sounds/default.wav"},
		{"file beats name", model.Notification{SoundFile: "/tmp/a.wav", SoundName: "bell"}, "/tmp/a.wav"},
		{"suppressed", model.Notification{SoundName: "bell", SuppressSound: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SoundFor(tt.n, cfg))
		})
	}
}

func TestLookupSoundName_RejectsPaths(t *testing.T) {
	t.Setenv("XDG_DATA_DIRS", t.TempDir())
	assert.Empty(t, LookupSoundName("../etc/passwd"))
	assert.Empty(t, LookupSoundName(""))
}

func TestManager_PlayForNothingConfigured(t *testing.T) {
	m := NewManager(config.NewShared(nil), nil)
	defer m.Stop()

	assert.NoError(t, m.PlayFor(model.Notification{ID: 1}))
}

func TestManager_PlayForUnsupportedFormat(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	cfg.Audio.Enabled = true
	m := NewManager(config.NewShared(cfg), nil)
	defer m.Stop()

	assert.Error(t, m.PlayFor(model.Notification{ID: 1, SoundFile: "/tmp/sound.flac"}))
}

func TestPlayer_Volume(t *testing.T) {
	p := NewPlayer(nil)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(0.4)
	assert.Equal(t, 0.4, p.Volume())
	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.Volume())
	p.SetVolume(3)
	assert.Equal(t, 1.0, p.Volume())
}

func TestVolumeToDecibels(t *testing.T) {
	assert.InDelta(t, 0.0, volumeToDecibels(1), 1e-9)
	assert.InDelta(t, -6.0206, volumeToDecibels(0.5), 1e-3)
	assert.Equal(t, -100.0, volumeToDecibels(0))
	assert.False(t, math.IsNaN(volumeToDecibels(0.001)))
}

func TestDecoderFor(t *testing.T) {
	for _, name := range []string{"a.wav", "b.OGG", "c.oga", "d.mp3"} {
		_, err := decoderFor(name)
		assert.NoError(t, err, name)
	}
	_, err := decoderFor("e.flac")
	assert.Error(t, err)
}
