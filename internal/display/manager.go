package display

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/ncenter/internal/engine"
)

// Manager implements engine.WindowController on top of GTK.
// Commands arrive on the engine goroutine and are marshalled onto the GTK
// main loop; user input is posted back to the engine sink.
type Manager struct {
	app    *gtk.Application
	logger *slog.Logger

	next atomic.Uint64
	out  *engine.Forwarder

	mu     sync.RWMutex
	popups map[engine.Handle]*Popup // only touched on the GTK main loop
}

// NewManager creates a new display manager.
func NewManager(app *gtk.Application, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		app:    app,
		logger: logger,
		out:    engine.NewForwarder(),
		popups: make(map[engine.Handle]*Popup),
	}
}

// Start checks that a display is available.
func (m *Manager) Start() error {
	if gdk.DisplayGetDefault() == nil {
		return &DisplayError{Message: "no display available"}
	}
	m.logger.Info("display manager started")
	return nil
}

// Stop closes every popup. It must be called on the GTK main loop.
func (m *Manager) Stop() {
	m.mu.Lock()
	popups := m.popups
	m.popups = make(map[engine.Handle]*Popup)
	m.mu.Unlock()

	for _, p := range popups {
		p.Close()
	}
	m.logger.Info("display manager stopped", "closed", len(popups))
}

// SetSink sets where window events are reported.
func (m *Manager) SetSink(sink engine.Sink) {
	m.out.SetSink(sink)
}

// CreateWindow opens a popup. The handle is reported once the window exists.
func (m *Manager) CreateWindow(cmd engine.CreateWindow) {
	h := engine.Handle(m.next.Add(1))

	glib.IdleAdd(func() {
		popup := NewPopup(m.app, cmd, m.logger)
		popup.OnDismiss(func() {
			m.post(engine.Close{Handle: h})
		})
		popup.OnAction(func(actionKey string) {
			m.post(engine.ActionInvoked{ID: cmd.ID, ActionKey: actionKey})
		})

		m.mu.Lock()
		m.popups[h] = popup
		m.mu.Unlock()

		popup.Show()
		m.logger.Debug("showed popup", "id", cmd.ID, "handle", h, "top", cmd.Margin.Top)

		m.post(engine.WindowOpened{Handle: h, ID: cmd.ID, Seq: cmd.Seq})
	})
}

// RepositionWindow moves a popup.
func (m *Manager) RepositionWindow(cmd engine.RepositionWindow) {
	glib.IdleAdd(func() {
		if popup := m.popup(cmd.Handle); popup != nil {
			popup.Move(cmd.Margin)
		}
	})
}

// DestroyWindow closes a popup.
func (m *Manager) DestroyWindow(cmd engine.DestroyWindow) {
	glib.IdleAdd(func() {
		m.mu.Lock()
		popup, ok := m.popups[cmd.Handle]
		delete(m.popups, cmd.Handle)
		m.mu.Unlock()

		if !ok {
			m.logger.Debug("destroy for unknown popup", "handle", cmd.Handle)
			return
		}
		popup.Close()
	})
}

// ActiveCount returns the number of open popups.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.popups)
}

func (m *Manager) popup(h engine.Handle) *Popup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.popups[h]
}

// post hands an event to the engine without blocking the GTK main loop.
// Events reach the engine in the order they were posted.
func (m *Manager) post(ev engine.Event) {
	m.out.Queue(ev)
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
