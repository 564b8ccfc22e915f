package engine

import (
	"time"

	"github.com/jmylchreest/ncenter/internal/model"
)

// Command is an effect produced by applying an event.
type Command interface {
	commandName() string
}

// CreateWindow asks the controller to open a popup for a notification.
// The controller reports the new handle back with a WindowOpened event
// carrying the same ID and Seq.
type CreateWindow struct {
	ID           uint32
	Seq          uint64
	Notification model.Notification
	Width        int
	Height       int
	Margin       Margin
	Metrics      Metrics
}

// RepositionWindow moves an open window.
type RepositionWindow struct {
	Handle Handle
	Margin Margin
}

// DestroyWindow tears an open window down.
type DestroyWindow struct {
	Handle Handle
}

// ScheduleExpiry starts the display timer of an entry.
type ScheduleExpiry struct {
	ID    uint32
	Seq   uint64
	After time.Duration
}

// EmitClosed announces a closure on the bus.
type EmitClosed struct {
	ID     uint32
	Reason model.CloseReason
}

// EmitAction announces an invoked action on the bus.
type EmitAction struct {
	ID        uint32
	ActionKey string
}

func (CreateWindow) commandName() string     { return "create_window" }
func (RepositionWindow) commandName() string { return "reposition_window" }
func (DestroyWindow) commandName() string    { return "destroy_window" }
func (ScheduleExpiry) commandName() string   { return "schedule_expiry" }
func (EmitClosed) commandName() string       { return "emit_closed" }
func (EmitAction) commandName() string       { return "emit_action" }
