package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/ncenter/internal/model"
)

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// ParsedActions converts the D-Bus action array to structured form.
// D-Bus actions are passed as alternating key/label pairs.
func (n *DBusNotification) ParsedActions() []model.Action {
	actions := make([]model.Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, model.Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// ToNotification converts the call into the engine's notification value.
// Non-positive expire timeouts map to zero, which selects the configured default.
func (n *DBusNotification) ToNotification(id uint32, receivedAt time.Time) model.Notification {
	var expiry time.Duration
	if n.ExpireTimeout > 0 {
		expiry = time.Duration(n.ExpireTimeout) * time.Millisecond
	}
	return model.Notification{
		ID:              id,
		AppName:         n.AppName,
		Summary:         n.Summary,
		Body:            n.Body,
		Icon:            n.Icon(),
		RequestedExpiry: expiry,
		Actions:         n.ParsedActions(),
		Urgency:         n.Urgency(),
		Category:        n.Category(),
		DesktopEntry:    n.DesktopEntry(),
		Resident:        n.Resident(),
		Transient:       n.Transient(),
		SoundFile:       n.SoundFile(),
		SoundName:       n.SoundName(),
		SuppressSound:   n.SuppressSound(),
		ReceivedAt:      receivedAt,
	}
}

// Icon returns the image-path hint if set, otherwise app_icon.
func (n *DBusNotification) Icon() string {
	if p := n.ImagePath(); p != "" {
		return p
	}
	return n.AppIcon
}

// Urgency extracts the urgency hint from the notification.
// Returns model.UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok && int(b) <= model.UrgencyCritical {
			return int(b)
		}
	}
	return model.UrgencyNormal
}

// Category extracts the category hint from the notification.
func (n *DBusNotification) Category() string {
	return n.stringHint("category")
}

// DesktopEntry extracts the desktop-entry hint.
func (n *DBusNotification) DesktopEntry() string {
	return n.stringHint("desktop-entry")
}

// SoundFile extracts the sound-file hint.
func (n *DBusNotification) SoundFile() string {
	return n.stringHint("sound-file")
}

// SoundName extracts the sound-name hint.
func (n *DBusNotification) SoundName() string {
	return n.stringHint("sound-name")
}

// ImagePath extracts the image-path hint.
func (n *DBusNotification) ImagePath() string {
	if p := n.stringHint("image-path"); p != "" {
		return p
	}
	// deprecated spelling from spec 1.0
	return n.stringHint("image_path")
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *DBusNotification) SuppressSound() bool {
	return n.boolHint("suppress-sound")
}

// Transient returns true if the transient hint is set.
// Transient notifications are not written to history.
func (n *DBusNotification) Transient() bool {
	return n.boolHint("transient")
}

// Resident returns true if the resident hint is set.
// Resident notifications stay on screen after an action is invoked.
func (n *DBusNotification) Resident() bool {
	return n.boolHint("resident")
}

func (n *DBusNotification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *DBusNotification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		switch b := v.Value().(type) {
		case bool:
			return b
		case byte:
			// some senders pass booleans as bytes
			return b != 0
		}
	}
	return false
}

// ServerCapabilities lists the capabilities advertised by ncenterd.
var ServerCapabilities = []string{
	"actions",     // Action buttons on popups
	"body",        // Body text
	"body-markup", // Pango markup in body
	"icon-static", // Static icons
	"persistence", // Notifications are kept in history
	"sound",       // Sounds on arrival
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "ncenterd"
	Vendor      string // "ncenter"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "ncenterd",
		Vendor:      "ncenter",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}
