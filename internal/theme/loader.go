package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader applies a theme to the display and reloads it when the theme
// files change. Load and Apply must be called on the GTK main loop.
type Loader struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string
	theme     *Theme
	watcher   *Watcher
}

// NewLoader creates a new theme loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// Load resolves and installs the named theme. On error the fallback theme
// is still installed.
func (l *Loader) Load(name string) error {
	t, err := Resolve(name, l.themesDir)
	l.provider.LoadFromString(t.CSS)

	l.mu.Lock()
	l.theme = t
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("theme fallback in use", "requested", name, "theme", t.Name, "error", err)
		return err
	}
	l.logger.Info("loaded theme", "name", t.Name, "path", t.Path)
	return nil
}

// Apply attaches the theme provider to display, or the default display.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}
	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}

// Current returns the name of the loaded theme.
func (l *Loader) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}

// StartHotReload reloads the current theme whenever a stylesheet in the
// themes directory changes.
func (l *Loader) StartHotReload(ctx context.Context) {
	if l.themesDir == "" {
		return
	}

	w := NewWatcher(l.themesDir, l.logger)
	w.SetChangeCallback(func() {
		glib.IdleAdd(func() {
			name := l.Current()
			if err := l.Load(name); err == nil {
				l.logger.Info("hot-reloaded theme", "name", name)
			}
		})
	})
	if err := w.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
		return
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()
}

// StopHotReload stops watching the themes directory.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
