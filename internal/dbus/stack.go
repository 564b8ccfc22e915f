package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/ncenter/internal/engine"
)

const (
	// StackInterface is the interface for inspecting the on-screen stack.
	StackInterface = "io.github.jmylchreest.ncenter.Stack"
	// StackPath is the object path of the stack interface.
	StackPath = "/io/github/jmylchreest/ncenter"
)

const stackQueryTimeout = 2 * time.Second

// StackEngine is the part of the engine runner the stack interface uses.
type StackEngine interface {
	Snapshot(ctx context.Context) ([]engine.Entry, error)
	Post(ev engine.Event) bool
}

// ActiveEntry is one row of ListActive, marshalled as (uuus).
type ActiveEntry struct {
	Rank      uint32
	ID        uint32
	HasWindow uint32
	Summary   string
}

// StackService exposes the active stack on the bus.
type StackService struct {
	engine StackEngine
	logger *slog.Logger
}

// NewStackService creates a stack service backed by eng.
func NewStackService(eng StackEngine, logger *slog.Logger) *StackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StackService{engine: eng, logger: logger}
}

// ListActive returns the active notifications in rank order.
// D-Bus method: ListActive() -> a(uuus)
func (s *StackService) ListActive() ([]ActiveEntry, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), stackQueryTimeout)
	defer cancel()

	entries, err := s.engine.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("failed to list active notifications", "error", err)
		return nil, dbus.MakeFailedError(err)
	}

	out := make([]ActiveEntry, 0, len(entries))
	for _, e := range entries {
		var hasWindow uint32
		if e.HasHandle {
			hasWindow = 1
		}
		out = append(out, ActiveEntry{
			Rank:      uint32(e.Rank),
			ID:        e.ID,
			HasWindow: hasWindow,
			Summary:   e.Summary,
		})
	}
	return out, nil
}

// DismissAll closes every active notification as if the user dismissed it.
// D-Bus method: DismissAll() -> nothing
func (s *StackService) DismissAll() *dbus.Error {
	s.logger.Debug("DismissAll called")
	if !s.engine.Post(engine.DismissAll{}) {
		return dbus.MakeFailedError(engine.ErrRunnerStopped)
	}
	return nil
}

func (s *StackService) export(conn *dbus.Conn) error {
	if err := conn.Export(s, StackPath, StackInterface); err != nil {
		return fmt.Errorf("failed to export stack object: %w", err)
	}

	node := &introspect.Node{
		Name: StackPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: StackInterface,
				Methods: []introspect.Method{
					{
						Name: "ListActive",
						Args: []introspect.Arg{
							{Name: "entries", Type: "a(uuus)", Direction: "out"},
						},
					},
					{Name: "DismissAll"},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), StackPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export stack introspectable: %w", err)
	}
	return nil
}
