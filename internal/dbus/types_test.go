package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/ncenter/internal/model"
)

func TestParsedActions(t *testing.T) {
	tests := []struct {
		name     string
		actions  []string
		expected []model.Action
	}{
		{
			name:     "empty",
			actions:  nil,
			expected: []model.Action{},
		},
		{
			name:     "single action",
			actions:  []string{"default", "Open"},
			expected: []model.Action{{Key: "default", Label: "Open"}},
		},
		{
			name:    "multiple actions",
			actions: []string{"default", "Open", "dismiss", "Dismiss", "reply", "Reply"},
			expected: []model.Action{
				{Key: "default", Label: "Open"},
				{Key: "dismiss", Label: "Dismiss"},
				{Key: "reply", Label: "Reply"},
			},
		},
		{
			name:     "odd number (incomplete pair ignored)",
			actions:  []string{"default", "Open", "orphan"},
			expected: []model.Action{{Key: "default", Label: "Open"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Actions: tt.actions}
			assert.Equal(t, tt.expected, n.ParsedActions())
		})
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: model.UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: model.UrgencyLow,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: model.UrgencyCritical,
		},
		{
			name:     "out of range returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(9))},
			expected: model.UrgencyNormal,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: model.UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestStringHints(t *testing.T) {
	n := &DBusNotification{
		Hints: map[string]dbus.Variant{
			"category":      dbus.MakeVariant("email.arrived"),
			"desktop-entry": dbus.MakeVariant("thunderbird"),
			"sound-file":    dbus.MakeVariant("/usr/share/sounds/notify.wav"),
			"sound-name":    dbus.MakeVariant("message-new-instant"),
			"image-path":    dbus.MakeVariant(123),
		},
	}

	assert.Equal(t, "email.arrived", n.Category())
	assert.Equal(t, "thunderbird", n.DesktopEntry())
	assert.Equal(t, "/usr/share/sounds/notify.wav", n.SoundFile())
	assert.Equal(t, "message-new-instant", n.SoundName())
	assert.Equal(t, "", n.ImagePath(), "wrong type is ignored")

	n.Hints = nil
	assert.Equal(t, "", n.Category())
	assert.Equal(t, "", n.SoundFile())
}

func TestBoolHints(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected bool
	}{
		{"no hint", nil, false},
		{"true", map[string]dbus.Variant{"transient": dbus.MakeVariant(true)}, true},
		{"false", map[string]dbus.Variant{"transient": dbus.MakeVariant(false)}, false},
		{"byte one", map[string]dbus.Variant{"transient": dbus.MakeVariant(byte(1))}, true},
		{"wrong type", map[string]dbus.Variant{"transient": dbus.MakeVariant("yes")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Transient())
		})
	}

	n := &DBusNotification{Hints: map[string]dbus.Variant{
		"resident":       dbus.MakeVariant(true),
		"suppress-sound": dbus.MakeVariant(true),
	}}
	assert.True(t, n.Resident())
	assert.True(t, n.SuppressSound())
	assert.False(t, n.Transient())
}

func TestIcon(t *testing.T) {
	n := &DBusNotification{AppIcon: "firefox"}
	assert.Equal(t, "firefox", n.Icon())

	n.Hints = map[string]dbus.Variant{"image_path": dbus.MakeVariant("/tmp/old.png")}
	assert.Equal(t, "/tmp/old.png", n.Icon())

	n.Hints["image-path"] = dbus.MakeVariant("/tmp/new.png")
	assert.Equal(t, "/tmp/new.png", n.Icon())
}

func TestToNotification(t *testing.T) {
	received := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	n := &DBusNotification{
		AppName:       "mail",
		AppIcon:       "mail-unread",
		Summary:       "New mail",
		Body:          "You have 3 new messages",
		Actions:       []string{"default", "Open"},
		ExpireTimeout: 2500,
		Hints: map[string]dbus.Variant{
			"urgency":       dbus.MakeVariant(byte(2)),
			"transient":     dbus.MakeVariant(true),
			"sound-file":    dbus.MakeVariant("/tmp/ding.wav"),
			"sound-name":    dbus.MakeVariant("message-new-email"),
			"category":      dbus.MakeVariant("email.arrived"),
			"desktop-entry": dbus.MakeVariant("thunderbird"),
		},
	}

	got := n.ToNotification(42, received)

	assert.Equal(t, model.Notification{
		ID:              42,
		AppName:         "mail",
		Summary:         "New mail",
		Body:            "You have 3 new messages",
		Icon:            "mail-unread",
		RequestedExpiry: 2500 * time.Millisecond,
		Actions:         []model.Action{{Key: "default", Label: "Open"}},
		Urgency:         model.UrgencyCritical,
		Category:        "email.arrived",
		DesktopEntry:    "thunderbird",
		Transient:       true,
		SoundFile:       "/tmp/ding.wav",
		SoundName:       "message-new-email",
		ReceivedAt:      received,
	}, got)
}

func TestToNotification_ExpireTimeout(t *testing.T) {
	tests := []struct {
		timeout  int32
		expected time.Duration
	}{
		{-1, 0},
		{0, 0},
		{1, time.Millisecond},
		{10000, 10 * time.Second},
	}

	for _, tt := range tests {
		n := &DBusNotification{ExpireTimeout: tt.timeout}
		assert.Equal(t, tt.expected, n.ToNotification(1, time.Now()).RequestedExpiry, "timeout %d", tt.timeout)
	}
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "ncenterd", info.Name)
	assert.Equal(t, "ncenter", info.Vendor)
	assert.Equal(t, "1.2", info.SpecVersion)
	assert.NotEmpty(t, info.Version)
}

func TestServerCapabilities(t *testing.T) {
	assert.Contains(t, ServerCapabilities, "actions")
	assert.Contains(t, ServerCapabilities, "body")
	assert.Contains(t, ServerCapabilities, "body-markup")
	assert.Contains(t, ServerCapabilities, "persistence")
	assert.Contains(t, ServerCapabilities, "sound")
}
