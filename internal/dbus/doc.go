// Package dbus implements the org.freedesktop.Notifications D-Bus interface.
// It provides a server that receives notifications from applications and
// exposes methods for GetCapabilities, Notify, CloseNotification, and
// GetServerInformation per the freedesktop.org notification specification.
// A second interface on its own object path lets the ncenter CLI inspect
// and clear the on-screen stack.
package dbus
