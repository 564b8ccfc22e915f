package engine

import "github.com/jmylchreest/ncenter/internal/model"

// Handle identifies an on-screen window. Handles are assigned by the window
// controller and are never reused while the daemon runs.
type Handle uint64

// Event is an input to the engine. All events are applied one at a time in
// arrival order.
type Event interface {
	eventName() string
}

// Notify shows a new notification, or replaces the active one with the
// same id.
type Notify struct {
	Notification model.Notification
}

// Close is a user dismissal of the window with the given handle.
type Close struct {
	Handle Handle
}

// CloseByContentID removes the notification with the given id. It is raised
// by CloseNotification calls from clients.
type CloseByContentID struct {
	ID uint32
}

// Expired fires when the display timer of an entry runs out. Seq guards
// against timers that outlived the entry they were started for.
type Expired struct {
	ID  uint32
	Seq uint64
}

// WindowOpened reports the handle the controller created for id. Seq is
// copied from the CreateWindow command, so a window opened for an entry
// that has since been replaced is told apart from the current one.
type WindowOpened struct {
	Handle Handle
	ID     uint32
	Seq    uint64
}

// ActionInvoked reports that the user activated an action button.
type ActionInvoked struct {
	ID        uint32
	ActionKey string
}

// ActionClose asks the engine to announce a closure that happened outside
// the stack, such as an internal notification torn down by its sender.
type ActionClose struct {
	ID     uint32
	Reason model.CloseReason
}

// DismissAll clears the whole stack as if the user closed every window.
type DismissAll struct{}

// Reconfigured is posted after the shared configuration changed. Entries
// beyond the new capacity are evicted and every window is repositioned.
type Reconfigured struct{}

type snapshotRequest struct {
	reply chan []Entry
}

func (Notify) eventName() string           { return "notify" }
func (Close) eventName() string            { return "close" }
func (CloseByContentID) eventName() string { return "close_by_content_id" }
func (Expired) eventName() string          { return "expired" }
func (WindowOpened) eventName() string     { return "window_opened" }
func (ActionInvoked) eventName() string    { return "action_invoked" }
func (ActionClose) eventName() string      { return "action_close" }
func (DismissAll) eventName() string       { return "dismiss_all" }
func (Reconfigured) eventName() string     { return "reconfigured" }
func (snapshotRequest) eventName() string  { return "snapshot" }
