package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/ncenter/internal/model"
)

// EmitNotificationClosed emits the NotificationClosed signal.
// This signal is emitted when a notification is closed, either by timeout,
// user dismissal, eviction or explicit close request.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason model.CloseReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".NotificationClosed", id, uint32(reason))
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal.
// This signal is emitted when the user invokes an action on a notification.
func (s *NotificationServer) EmitActionInvoked(id uint32, actionKey string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".ActionInvoked", id, actionKey)
	if err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}

	s.logger.Debug("emitted ActionInvoked signal", "id", id, "action_key", actionKey)
	return nil
}

// NotificationClosed emits NotificationClosed and logs failures.
func (s *NotificationServer) NotificationClosed(id uint32, reason model.CloseReason) {
	if err := s.EmitNotificationClosed(id, reason); err != nil {
		s.logger.Warn("failed to announce closed notification", "id", id, "reason", reason.String(), "error", err)
	}
}

// ActionInvoked emits ActionInvoked and logs failures.
func (s *NotificationServer) ActionInvoked(id uint32, actionKey string) {
	if err := s.EmitActionInvoked(id, actionKey); err != nil {
		s.logger.Warn("failed to announce action", "id", id, "action_key", actionKey, "error", err)
	}
}

// Connection returns the underlying D-Bus connection.
func (s *NotificationServer) Connection() *dbus.Conn {
	return s.conn
}
