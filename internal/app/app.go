package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/statebox/internal/config"
	"github.com/five82/statebox/internal/demo"
	"github.com/five82/statebox/internal/observe"
	"github.com/five82/statebox/internal/prefs"
	"github.com/five82/statebox/internal/scope"
	"github.com/five82/statebox/internal/seed"
	"github.com/five82/statebox/internal/state"
	"github.com/five82/statebox/internal/ui"
)

// Options configure the statebox application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/statebox/prefs.toml
	StatePath  string        // overrides initial_state from config
	TickEvery  time.Duration // overrides tick_seconds from config; negative disables
}

// environment is what both commands need before they start.
type environment struct {
	cfg    config.Config
	logger *slog.Logger
	doc    demo.Doc
	close  func()
}

func setup(opts Options) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	statePath := cfg.InitialState
	if opts.StatePath != "" {
		statePath = opts.StatePath
	}
	doc, err := seed.Load(statePath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("load initial state: %w", err)
	}

	return &environment{cfg: cfg, logger: logger, doc: doc, close: closeLog}, nil
}

// Run boots the statebox TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	userPrefs := prefs.Load(opts.PrefsPath)
	obs := observe.NewSlogObserver(env.logger)

	factory := scope.New("statebox", func() demo.Doc { return env.doc },
		state.WithName("statebox"), state.WithObserver(obs)).WithObserver(obs)
	ctx = factory.Provide(ctx)

	store, err := factory.UseStore(ctx)
	if err != nil {
		return err
	}

	interval := env.cfg.TickEvery
	if opts.TickEvery != 0 {
		interval = opts.TickEvery
	}

	env.logger.Info("statebox starting",
		slog.String("store", store.ID().String()),
		slog.Duration("tick", tickInterval(interval)),
		slog.String("theme", userPrefs.Theme),
	)

	return ui.Run(ctx, ui.Options{
		Store:     store,
		ThemeName: userPrefs.Theme,
		Focus:     userPrefs.Focus,
		PrefsPath: opts.PrefsPath,
		Ticks:     StartTicker(ctx, interval),
		Logger:    env.logger,
	})
}

// RunTrace runs the scripted trace and writes the report to w.
func RunTrace(ctx context.Context, w io.Writer, opts Options) error {
	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	return Trace(ctx, w, env.doc, observe.NewSlogObserver(env.logger))
}

// openLogger returns a text logger writing to path. stdout belongs to the
// TUI, so an empty path discards logs instead.
func openLogger(path string, level slog.Level) (*slog.Logger, func(), error) {
	handlerOpts := &slog.HandlerOptions{Level: level}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(file, handlerOpts)), func() { _ = file.Close() }, nil
}
