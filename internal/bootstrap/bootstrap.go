// Package bootstrap assembles the session and adapters shared by every
// front end.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"picqer/internal/adapters/capture"
	"picqer/internal/adapters/filesystem"
	"picqer/internal/adapters/opener"
	"picqer/internal/adapters/sqlite"
	"picqer/internal/application"
	"picqer/internal/config"
	"picqer/internal/logging"
	"picqer/internal/ports"
)

// Version is reported by every binary
const Version = "0.1.0"

// Options selects how the process is wired
type Options struct {
	Mode logging.Mode

	// Dir overrides the configured save directory
	Dir string

	// ConfigPath overrides config.Path()
	ConfigPath string
}

// App holds the wired collaborators. Catalog is nil when disabled or
// when the database could not be opened.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Session   *application.Session
	Files     *filesystem.ImageFiles
	Clipboard *capture.Clipboard
	Screen    *capture.Screen
	Opener    *opener.Opener
	Catalog   ports.RecordCatalog

	CatalogPath string

	closers []func() error
}

// New loads configuration, initializes logging, opens the catalog and loads
// the save directory.
func New(opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Init(cfg.Log, logging.InitOptions{
		App:     "picqer",
		Version: Version,
		Mode:    opts.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Files:     filesystem.NewImageFiles(),
		Clipboard: capture.NewClipboard(cfg.Capture.ClipboardCommand, logger),
		Screen:    capture.NewScreen(cfg.Capture.ScreenCommand, logger),
		Opener:    opener.NewOpener(),
		closers:   []func() error{closeLog},
	}
	app.Session = application.NewSession(filesystem.NewIndexStore(), app.Files, logger)

	if cfg.CatalogEnabled() {
		catalog := sqlite.NewCatalog()
		if err := catalog.Open(cfg.Catalog.Path); err != nil {
			// The catalog only accelerates search; index files stay authoritative
			logger.Warn("record catalog unavailable", "error", err)
		} else {
			app.Catalog = catalog
			app.CatalogPath = catalog.Path()
			app.Session.SetCatalog(catalog)
			app.closers = append([]func() error{catalog.Close}, app.closers...)
		}
	}

	dir := opts.Dir
	if dir == "" {
		dir = cfg.SaveDirectory()
	}
	if err := app.Session.LoadForDirectory(config.ExpandUser(dir)); err != nil {
		app.Close()
		return nil, err
	}
	logger.Info("session ready", "mode", opts.Mode.String(), "dir", app.Session.Directory())
	return app, nil
}

// ScreenDelay returns the configured settle time before a screen grab
func (a *App) ScreenDelay() time.Duration {
	return a.Config.ScreenDelay()
}

// Close releases the catalog and the log file
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
