package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/ncenter/internal/audio"
	"github.com/jmylchreest/ncenter/internal/config"
	"github.com/jmylchreest/ncenter/internal/dbus"
	"github.com/jmylchreest/ncenter/internal/engine"
	"github.com/jmylchreest/ncenter/internal/model"
	"github.com/jmylchreest/ncenter/internal/store"
)

// WindowController is a window backend the daemon can drive.
type WindowController interface {
	engine.WindowController
	SetSink(sink engine.Sink)
}

// Options configures a Daemon.
type Options struct {
	// ConfigPath overrides the daemon config file location.
	ConfigPath string
	// LockPath overrides the single-instance lock location.
	LockPath string
	// Version is reported in the startup notification and server info.
	Version string
	// Windows shows the popups. Required.
	Windows WindowController
	Logger  *slog.Logger
	// DisableBus skips claiming org.freedesktop.Notifications.
	DisableBus bool
	// DisableWatch skips the config file watcher.
	DisableWatch bool
	// OnReload is called after a reloaded config has been applied.
	OnReload func(cfg *config.DaemonConfig)
}

// Daemon ties the engine to its surroundings: D-Bus intake and signals,
// history, sounds, config reload and internal notifications.
type Daemon struct {
	opts   Options
	logger *slog.Logger

	cfg      *config.Shared
	runner   *engine.Runner
	server   *dbus.NotificationServer
	stack    *dbus.StackService
	audio    *audio.Manager
	notifier *InternalNotifier
	watcher  *ConfigWatcher
	lock     *InstanceLock

	historyMu sync.Mutex
	history   *store.History

	bg sync.WaitGroup
}

// New builds a daemon from opts and the config file. Nothing is started.
func New(opts Options) (*Daemon, error) {
	if opts.Windows == nil {
		return nil, errors.New("window controller is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := config.DaemonConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		configPath = p
	}
	cfg, err := config.LoadDaemonConfigFrom(configPath)
	if err != nil {
		return nil, err
	}
	opts.ConfigPath = configPath

	d := &Daemon{
		opts:     opts,
		logger:   logger,
		cfg:      config.NewShared(cfg),
		notifier: NewInternalNotifier(logger.With("component", "notifier")),
		lock:     NewInstanceLock(opts.LockPath),
	}

	d.runner = engine.NewRunner(d.cfg, opts.Windows, logger.With("component", "engine"))
	opts.Windows.SetSink(d.runner)

	d.server = dbus.NewNotificationServer(logger.With("component", "dbus"))
	if opts.Version != "" {
		info := dbus.DefaultServerInfo()
		info.Version = opts.Version
		d.server.SetServerInfo(info)
	}
	d.stack = dbus.NewStackService(d.runner, logger.With("component", "stack"))
	d.server.SetStackService(d.stack)
	d.server.SetNotifyHandler(d.handleNotify)
	d.server.SetCloseHandler(d.handleClose)
	d.runner.SetSignaler(d.server)
	d.runner.SetEventHandler(d.onEvent)

	d.notifier.SetNotifyHandler(d.server.NotifyInternal)

	d.audio = audio.NewManager(d.cfg, logger.With("component", "audio"))

	if cfg.History.Enabled {
		d.openHistory(cfg.HistoryPath())
	}

	return d, nil
}

// Config returns the live configuration holder.
func (d *Daemon) Config() *config.Shared {
	return d.cfg
}

// Engine returns the engine runner.
func (d *Daemon) Engine() *engine.Runner {
	return d.runner
}

// Server returns the D-Bus notification server.
func (d *Daemon) Server() *dbus.NotificationServer {
	return d.server
}

// Run starts every component and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := d.lock.Release(); err != nil {
			d.logger.Warn("failed to release instance lock", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineErr := make(chan error, 1)
	go func() { engineErr <- d.runner.Run(ctx) }()

	if !d.opts.DisableBus {
		if err := d.server.Start(); err != nil {
			cancel()
			d.shutdown()
			<-engineErr
			return err
		}
	}

	if !d.opts.DisableWatch {
		if err := d.startWatcher(ctx); err != nil {
			d.logger.Warn("config hot reload disabled", "error", err)
		}
	}

	d.logger.Info("daemon started", "config", d.opts.ConfigPath, "lock", d.lock.Path())
	if d.opts.Version != "" && d.cfg.Get().Behavior.NotifyOnReload {
		d.notifier.NotifyStartup(d.opts.Version)
	}

	<-ctx.Done()
	d.shutdown()
	err := <-engineErr
	d.logger.Info("daemon stopped")
	return err
}

func (d *Daemon) startWatcher(ctx context.Context) error {
	w, err := NewConfigWatcher(d.opts.ConfigPath, d.logger.With("component", "config"))
	if err != nil {
		return err
	}
	w.SetReloadCallback(d.applyConfig)
	w.SetErrorCallback(d.configError)
	if err := w.Start(ctx, d.cfg.Get()); err != nil {
		return err
	}
	d.watcher = w
	return nil
}

func (d *Daemon) shutdown() {
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if err := d.server.Stop(); err != nil {
		d.logger.Warn("failed to stop D-Bus server", "error", err)
	}
	<-d.runner.Done()
	d.bg.Wait()
	d.audio.Stop()

	d.historyMu.Lock()
	defer d.historyMu.Unlock()
	if d.history != nil {
		if err := d.history.Close(); err != nil {
			d.logger.Warn("failed to close history", "error", err)
		}
		d.history = nil
	}
}

// handleNotify feeds a notification from D-Bus into the engine.
func (d *Daemon) handleNotify(n model.Notification) {
	if !d.runner.Post(engine.Notify{Notification: n}) {
		d.logger.Warn("notification dropped: engine stopped", "id", n.ID)
	}
}

// handleClose feeds a CloseNotification request into the engine.
func (d *Daemon) handleClose(id uint32) {
	d.runner.Post(engine.CloseByContentID{ID: id})
}

// onEvent runs on the engine loop before each event is applied. Slow work
// is moved off the loop.
func (d *Daemon) onEvent(ev engine.Event) {
	n, ok := ev.(engine.Notify)
	if !ok {
		return
	}
	d.bg.Add(2)
	go func() {
		defer d.bg.Done()
		d.recordHistory(n.Notification)
	}()
	go func() {
		defer d.bg.Done()
		if err := d.audio.PlayFor(n.Notification); err != nil {
			d.logger.Debug("failed to play sound", "id", n.Notification.ID, "error", err)
			if n.Notification.AppName != internalAppName {
				d.notifier.NotifyAudioError(err)
			}
		}
	}()
}

func (d *Daemon) recordHistory(n model.Notification) {
	d.historyMu.Lock()
	h := d.history
	if h == nil {
		d.historyMu.Unlock()
		return
	}
	_, err := h.Record(n)
	d.historyMu.Unlock()

	if err != nil && !errors.Is(err, store.ErrHistoryClosed) {
		d.logger.Warn("failed to record notification", "id", n.ID, "error", err)
		if n.AppName != internalAppName {
			d.notifier.NotifyHistoryError(err)
		}
	}
}

func (d *Daemon) openHistory(path string) {
	h, err := store.Open(path, d.logger.With("component", "history"))
	if err != nil {
		d.logger.Warn("history disabled", "path", path, "error", err)
		return
	}
	d.historyMu.Lock()
	d.history = h
	d.historyMu.Unlock()
}

// applyConfig installs a freshly loaded configuration.
func (d *Daemon) applyConfig(cfg *config.DaemonConfig) {
	prev := d.cfg.Get()
	d.cfg.Set(cfg)
	d.runner.Post(engine.Reconfigured{})
	d.audio.Reload()
	d.syncHistory(prev, cfg)
	if d.opts.OnReload != nil {
		d.opts.OnReload(cfg)
	}

	if cfg.Behavior.NotifyOnReload {
		d.notifier.NotifyConfigReloaded()
	}
}

// syncHistory opens, closes or moves the history log to match cfg.
func (d *Daemon) syncHistory(prev, cfg *config.DaemonConfig) {
	samePath := prev != nil && prev.HistoryPath() == cfg.HistoryPath()

	d.historyMu.Lock()
	h := d.history
	if h != nil && (!cfg.History.Enabled || !samePath) {
		if err := h.Close(); err != nil {
			d.logger.Warn("failed to close history", "error", err)
		}
		d.history = nil
		h = nil
	}
	d.historyMu.Unlock()

	if h == nil && cfg.History.Enabled {
		d.openHistory(cfg.HistoryPath())
	}
}

func (d *Daemon) configError(err error) {
	if d.cfg.Get().Behavior.NotifyOnReload {
		d.notifier.NotifyConfigError(err)
	}
}
