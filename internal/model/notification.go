// Package model defines the notification types shared by the D-Bus server,
// the lifecycle engine and the history log.
package model

import (
	"strings"
	"time"
)

// Urgency levels matching freedesktop spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Notification is a single notification request as seen by the engine.
// It is built once by the notification source and never modified afterwards;
// pass it by value.
type Notification struct {
	ID      uint32
	AppName string
	Summary string
	Body    string
	Icon    string // Icon name or file path

	// RequestedExpiry is the timeout asked for by the sender.
	// Zero or negative means "use the configured default".
	RequestedExpiry time.Duration

	Actions []Action
	Urgency int

	Category     string // freedesktop category, e.g. "email.arrived"
	DesktopEntry string // Sender's .desktop file name without suffix

	Resident      bool // Keep the popup after an action is invoked
	Transient     bool // Do not record in history
	SoundFile     string
	SoundName     string // Sound theme name, used when SoundFile is empty
	SuppressSound bool

	ReceivedAt time.Time
}

// UrgencyName returns the human-readable urgency, defaulting to "normal".
func (n Notification) UrgencyName() string {
	if name, ok := UrgencyNames[n.Urgency]; ok {
		return name
	}
	return UrgencyNames[UrgencyNormal]
}

// DefaultAction returns the key of the action to invoke when the popup
// itself is activated: "default" if present, otherwise the first action.
func (n Notification) DefaultAction() (string, bool) {
	if len(n.Actions) == 0 {
		return "", false
	}
	for _, a := range n.Actions {
		if a.Key == "default" {
			return a.Key, true
		}
	}
	return n.Actions[0].Key, true
}

// BodyTruncated returns the body truncated to maxLen characters.
// If the body is longer, it is truncated and "..." is appended.
func BodyTruncated(body string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	// Collapse whitespace and newlines to single spaces
	body = strings.Join(strings.Fields(body), " ")

	runes := []rune(body)
	if len(runes) <= maxLen {
		return body
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
