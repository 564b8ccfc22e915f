// Package main is the entry point for the ncenterd notification daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/daemon"
	"github.com/jmylchreest/ncenter/internal/display"
	"github.com/jmylchreest/ncenter/internal/headless"
	"github.com/jmylchreest/ncenter/internal/theme"
)

const appID = "io.github.jmylchreest.ncenterd"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	headlessMode := flag.Bool("headless", false, "Run without a display (popups are logged, not shown)")
	configPath := flag.String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/ncenter/ncenterd.toml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("ncenterd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	if *headlessMode {
		err = runHeadless(ctx, *configPath, logger)
	} else {
		err = runDisplay(ctx, *configPath, logger)
	}
	if err != nil {
		logger.Error("ncenterd exited with error", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs the daemon with virtual windows.
func runHeadless(ctx context.Context, configPath string, logger *slog.Logger) error {
	logger.Info("starting ncenterd in headless mode", "version", version)

	d, err := daemon.New(daemon.Options{
		ConfigPath: configPath,
		Version:    version,
		Windows:    headless.New(logger.With("component", "headless")),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

// runDisplay runs the daemon inside a libadwaita application and shows
// popups as layer-shell windows.
func runDisplay(ctx context.Context, configPath string, logger *slog.Logger) error {
	logger.Info("starting ncenterd", "version", version)

	app := adw.NewApplication(appID, 0)
	displayManager := display.NewManager(&app.Application, logger.With("component", "display"))
	var themeLoader *theme.Loader

	d, err := daemon.New(daemon.Options{
		ConfigPath: configPath,
		Version:    version,
		Windows:    displayManager,
		Logger:     logger,
		OnReload: func(cfg *config.DaemonConfig) {
			name := cfg.Theme.Name
			glib.IdleAdd(func() {
				if themeLoader != nil && themeLoader.Current() != name {
					_ = themeLoader.Load(name)
				}
			})
		},
	})
	if err != nil {
		return err
	}

	var (
		running atomic.Bool
		errMu   sync.Mutex
		runErr  error
	)
	setErr := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if runErr == nil {
			runErr = err
		}
	}

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		if err := displayManager.Start(); err != nil {
			setErr(err)
			app.Quit()
			return
		}

		themeLoader = theme.NewLoader(logger.With("component", "theme"))
		_ = themeLoader.Load(d.Config().Get().Theme.Name)
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		go func() {
			if err := d.Run(ctx); err != nil {
				setErr(err)
			}
			glib.IdleAdd(func() {
				themeLoader.StopHotReload()
				displayManager.Stop()
				app.Quit()
			})
		}()

		// GTK apps quit when all windows are closed
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		running.Store(false)
	})

	if status := app.Run(os.Args[:1]); status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}

	errMu.Lock()
	defer errMu.Unlock()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	logger.Info("ncenterd stopped")
	return nil
}
