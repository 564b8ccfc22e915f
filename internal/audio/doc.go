// Package audio provides notification sound playback functionality.
// It uses the beep library to play WAV, OGG, and MP3 audio files with
// volume control. A notification plays its sound-file hint when present,
// otherwise the configured default sound.
package audio
