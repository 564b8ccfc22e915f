// Package engine implements the notification lifecycle and stack management.
//
// State is owned by a single Runner goroutine. Every change arrives as an
// Event through the runner's mailbox: new notifications from the D-Bus
// server, user dismissals from the window controller, and expiry timers.
// State.Apply turns one event into a list of Commands (create, reposition
// and destroy windows, schedule expiry, emit signals) without doing any I/O,
// so the transition logic can be tested without a live mailbox.
package engine
