// Package headless provides a window controller that keeps no real windows.
// It allocates handles, tracks where each popup would be placed and logs
// every command, so the daemon can run on machines without a compositor.
package headless

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jmylchreest/ncenter/internal/engine"
)

// Window is the recorded state of a virtual popup.
type Window struct {
	Handle  engine.Handle
	ID      uint32
	Summary string
	Width   int
	Height  int
	Margin  engine.Margin
}

// Controller implements engine.WindowController without a display.
type Controller struct {
	logger *slog.Logger

	out *engine.Forwarder

	mu      sync.Mutex
	hasSink bool
	next    engine.Handle
	windows map[engine.Handle]*Window
}

// New creates a headless controller.
func New(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger:  logger,
		out:     engine.NewForwarder(),
		windows: make(map[engine.Handle]*Window),
	}
}

// SetSink sets where window events are reported.
func (c *Controller) SetSink(sink engine.Sink) {
	c.out.SetSink(sink)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasSink = sink != nil
}

// CreateWindow records a new virtual window and reports its handle.
func (c *Controller) CreateWindow(cmd engine.CreateWindow) {
	c.mu.Lock()
	c.next++
	h := c.next
	c.windows[h] = &Window{
		Handle:  h,
		ID:      cmd.ID,
		Summary: cmd.Notification.Summary,
		Width:   cmd.Width,
		Height:  cmd.Height,
		Margin:  cmd.Margin,
	}
	c.mu.Unlock()

	c.logger.Info("notification shown",
		"id", cmd.ID,
		"handle", h,
		"app", cmd.Notification.AppName,
		"summary", cmd.Notification.Summary,
		"urgency", cmd.Notification.UrgencyName())

	c.out.Queue(engine.WindowOpened{Handle: h, ID: cmd.ID, Seq: cmd.Seq})
}

// RepositionWindow updates the recorded margin of a window.
func (c *Controller) RepositionWindow(cmd engine.RepositionWindow) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[cmd.Handle]
	if !ok {
		c.logger.Debug("reposition for unknown window", "handle", cmd.Handle)
		return
	}
	w.Margin = cmd.Margin
	c.logger.Debug("window moved", "id", w.ID, "handle", cmd.Handle, "top", cmd.Margin.Top)
}

// DestroyWindow forgets a window.
func (c *Controller) DestroyWindow(cmd engine.DestroyWindow) {
	c.mu.Lock()
	w, ok := c.windows[cmd.Handle]
	delete(c.windows, cmd.Handle)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("destroy for unknown window", "handle", cmd.Handle)
		return
	}
	c.logger.Info("notification hidden", "id", w.ID, "handle", cmd.Handle)
}

// Windows returns the open windows ordered from the top of the screen.
func (c *Controller) Windows() []Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Window, 0, len(c.windows))
	for _, w := range c.windows {
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b Window) int {
		if a.Margin.Top != b.Margin.Top {
			return a.Margin.Top - b.Margin.Top
		}
		return int(a.Handle) - int(b.Handle)
	})
	return out
}

// Dismiss simulates the user closing a window. It reports whether the
// window exists and a sink is set.
func (c *Controller) Dismiss(h engine.Handle) bool {
	c.mu.Lock()
	_, ok := c.windows[h]
	hasSink := c.hasSink
	c.mu.Unlock()

	if !ok || !hasSink {
		return false
	}
	c.out.Queue(engine.Close{Handle: h})
	return true
}

// Invoke simulates the user activating an action on a window.
func (c *Controller) Invoke(h engine.Handle, actionKey string) bool {
	c.mu.Lock()
	w, ok := c.windows[h]
	hasSink := c.hasSink
	c.mu.Unlock()

	if !ok || !hasSink {
		return false
	}
	c.out.Queue(engine.ActionInvoked{ID: w.ID, ActionKey: actionKey})
	return true
}

// Idle returns a channel closed once every reported event was delivered.
func (c *Controller) Idle() <-chan struct{} {
	return c.out.Idle()
}
