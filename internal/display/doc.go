// Package display manages GTK4 popup windows for notifications.
// Popups are Wayland layer-shell surfaces anchored to the top-right corner;
// the engine decides their margins and this package only applies them.
package display
