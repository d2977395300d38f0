package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/lsfremote/internal/config"
	"github.com/five82/lsfremote/internal/connection"
	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/prefs"
	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/ui"
)

// Options configure the lsfremote application. Zero values keep what the
// config file says.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/lsfremote/prefs.toml
	Host       string
	Port       int
	PollMS     int
	LogLevel   string
}

// Settings loads the config file and applies the command-line overrides.
func Settings(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if opts.PollMS > 0 {
		cfg.PollInterval = time.Duration(opts.PollMS) * time.Millisecond
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// components is everything one remote session needs.
type components struct {
	cfg     config.Config
	logger  *slog.Logger
	monitor *connection.Monitor
	client  *lumasonic.Client
	session *remote.Session
	closers []io.Closer
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i].Close()
	}
}

// build wires logger, monitor, client and session. notifier receives the
// user-facing notifications.
func build(cfg config.Config, notifier notify.Notifier) (*components, error) {
	logger, logCloser, err := newLogger(cfg.LogFile, cfg.Level())
	if err != nil {
		return nil, err
	}
	c := &components{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	c.monitor = connection.New(connection.Options{
		Debounce:             cfg.NotifyDebounce,
		PollErrorLogInterval: cfg.PollErrorLogInterval,
		Logger:               logger.With("component", "connection"),
		Notifier:             notifier,
	})

	c.client, err = lumasonic.NewClient(cfg.BaseURL(),
		lumasonic.WithObserver(c.monitor),
		lumasonic.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init player client: %w", err)
	}

	c.session = remote.NewSession(c.client, notifier, logger.With("component", "remote"))
	return c, nil
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := Settings(opts)
	if err != nil {
		return err
	}

	userPrefs := prefs.Load(opts.PrefsPath).WithKnownTheme(ui.ThemeNames())

	tray := notify.NewTray(cfg.NotificationTTL, nil)
	defer tray.Close()

	c, err := build(cfg, tray)
	if err != nil {
		return err
	}
	defer c.Close()

	c.logger.Info("starting", "player", c.client.BaseURL(), "poll", cfg.PollInterval)

	return ui.Run(ui.Options{
		Context:      ctx,
		Session:      c.session,
		Monitor:      c.monitor,
		Tray:         tray,
		PollInterval: cfg.PollInterval,
		Address:      cfg.Address(),
		ThemeName:    userPrefs.Theme,
		Mouse:        userPrefs.Mouse,
		PrefsPath:    opts.PrefsPath,
		Logger:       c.logger.With("component", "ui"),
	})
}
