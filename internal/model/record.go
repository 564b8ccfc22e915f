package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record is a notification as written to the history log.
type Record struct {
	HistoryID       string   `json:"history_id"`
	ID              uint32   `json:"id"`
	AppName         string   `json:"app_name"`
	Summary         string   `json:"summary"`
	Body            string   `json:"body,omitempty"`
	Icon            string   `json:"icon,omitempty"`
	Category        string   `json:"category,omitempty"`
	DesktopEntry    string   `json:"desktop_entry,omitempty"`
	Urgency         int      `json:"urgency"`
	UrgencyName     string   `json:"urgency_name"`
	ExpireTimeoutMS int64    `json:"expire_timeout_ms,omitempty"`
	Actions         []Action `json:"actions,omitempty"`
	Timestamp       int64    `json:"timestamp"`
}

// Validation errors.
var (
	ErrEmptyHistoryID   = errors.New("history_id cannot be empty")
	ErrInvalidUrgency   = errors.New("urgency must be 0, 1, or 2")
	ErrInvalidTimestamp = errors.New("timestamp must be greater than 0")
)

// NewRecord creates a history record for n with a freshly generated ULID.
func NewRecord(n Notification) (Record, error) {
	received := n.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	id, err := ulid.New(ulid.Timestamp(received), rand.Reader)
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate ULID: %w", err)
	}

	r := Record{
		HistoryID:    id.String(),
		ID:           n.ID,
		AppName:      n.AppName,
		Summary:      n.Summary,
		Body:         n.Body,
		Icon:         n.Icon,
		Category:     n.Category,
		DesktopEntry: n.DesktopEntry,
		Urgency:      n.Urgency,
		UrgencyName:  n.UrgencyName(),
		Actions:      n.Actions,
		Timestamp:    received.Unix(),
	}
	if n.RequestedExpiry > 0 {
		r.ExpireTimeoutMS = n.RequestedExpiry.Milliseconds()
	}
	return r, nil
}

// Validate checks that the record has all required fields.
func (r *Record) Validate() error {
	if r.HistoryID == "" {
		return ErrEmptyHistoryID
	}
	if r.Urgency < UrgencyLow || r.Urgency > UrgencyCritical {
		return ErrInvalidUrgency
	}
	if r.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// TimestampTime returns the timestamp as a time.Time.
func (r Record) TimestampTime() time.Time {
	return time.Unix(r.Timestamp, 0)
}
