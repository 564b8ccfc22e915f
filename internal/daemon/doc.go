// Package daemon provides the main orchestration for ncenterd.
// It connects the stack engine to the D-Bus server, the notification
// history, the audio player and configuration hot-reload.
package daemon
