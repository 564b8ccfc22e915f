package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/model"
)

// DefaultMailboxSize is the number of events that can be queued before
// Post blocks.
const DefaultMailboxSize = 256

// ErrRunnerStopped is returned by queries made after the event loop exited.
var ErrRunnerStopped = errors.New("engine runner stopped")

// Sink accepts events for the engine.
type Sink interface {
	Post(ev Event) bool
}

// WindowController executes window commands. Methods are called from the
// runner goroutine and must not block on the runner: results such as the
// handle of a new window are reported back asynchronously through a Sink.
type WindowController interface {
	CreateWindow(cmd CreateWindow)
	RepositionWindow(cmd RepositionWindow)
	DestroyWindow(cmd DestroyWindow)
}

// Signaler announces notification outcomes to clients.
type Signaler interface {
	NotificationClosed(id uint32, reason model.CloseReason)
	ActionInvoked(id uint32, actionKey string)
}

// Runner owns a State and applies events to it one at a time.
type Runner struct {
	cfg     *config.Shared
	windows WindowController
	logger  *slog.Logger

	mu       sync.RWMutex
	signaler Signaler
	onEvent  func(Event)

	mailbox   chan Event
	done      chan struct{}
	running   atomic.Bool
	state     *State
	afterFunc func(d time.Duration, f func())
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMailboxSize sets the mailbox buffer size.
func WithMailboxSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.mailbox = make(chan Event, n)
		}
	}
}

// WithAfterFunc replaces time.AfterFunc for expiry timers.
func WithAfterFunc(fn func(d time.Duration, f func())) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.afterFunc = fn
		}
	}
}

// NewRunner creates a runner. The event loop starts with Run.
func NewRunner(cfg *config.Shared, windows WindowController, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = config.NewShared(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		cfg:     cfg,
		windows: windows,
		logger:  logger,
		mailbox: make(chan Event, DefaultMailboxSize),
		done:    make(chan struct{}),
		state:   NewState(),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSignaler sets where closures and actions are announced.
func (r *Runner) SetSignaler(s Signaler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signaler = s
}

// SetEventHandler sets a hook called from the loop before each event is
// applied. The hook must not call back into the runner synchronously.
func (r *Runner) SetEventHandler(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvent = fn
}

// Post queues an event. It returns false once the loop has stopped.
func (r *Runner) Post(ev Event) bool {
	if ev == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.mailbox <- ev:
		return true
	case <-r.done:
		return false
	}
}

// Run drains the mailbox until ctx is cancelled. It may be called once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errors.New("engine runner already started")
	}
	defer close(r.done)

	r.logger.Debug("engine started", "mailbox", cap(r.mailbox))
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("engine stopped", "active", r.state.Len())
			return nil
		case ev := <-r.mailbox:
			r.handle(ev)
		}
	}
}

// Done is closed when the event loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the active entries in rank order.
func (r *Runner) Snapshot(ctx context.Context) ([]Entry, error) {
	reply := make(chan []Entry, 1)
	if !r.Post(snapshotRequest{reply: reply}) {
		return nil, ErrRunnerStopped
	}
	select {
	case entries := <-reply:
		return entries, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		select {
		case entries := <-reply:
			return entries, nil
		default:
			return nil, ErrRunnerStopped
		}
	}
}

func (r *Runner) handle(ev Event) {
	if req, ok := ev.(snapshotRequest); ok {
		req.reply <- r.state.Entries()
		return
	}

	r.mu.RLock()
	hook := r.onEvent
	r.mu.RUnlock()
	if hook != nil {
		hook(ev)
	}

	params := ParamsFromConfig(r.cfg.Get())
	cmds := r.state.Apply(params, ev)

	r.logger.Debug("event applied",
		"event", ev.eventName(),
		"commands", len(cmds),
		"active", r.state.Len())

	for _, cmd := range cmds {
		r.dispatch(cmd)
	}
}

func (r *Runner) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case CreateWindow:
		if r.windows != nil {
			r.windows.CreateWindow(c)
		}
	case RepositionWindow:
		if r.windows != nil {
			r.windows.RepositionWindow(c)
		}
	case DestroyWindow:
		if r.windows != nil {
			r.windows.DestroyWindow(c)
		}
	case ScheduleExpiry:
		r.afterFunc(c.After, func() {
			r.Post(Expired{ID: c.ID, Seq: c.Seq})
		})
	case EmitClosed:
		if s := r.currentSignaler(); s != nil {
			s.NotificationClosed(c.ID, c.Reason)
		}
	case EmitAction:
		if s := r.currentSignaler(); s != nil {
			s.ActionInvoked(c.ID, c.ActionKey)
		}
	default:
		r.logger.Warn("unknown engine command", "command", cmd.commandName())
	}
}

func (r *Runner) currentSignaler() Signaler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.signaler
}
