package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/charnotes/internal/app"
	"github.com/marcus/charnotes/internal/config"
	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/host/identity"
	"github.com/marcus/charnotes/internal/host/settings"
	"github.com/marcus/charnotes/internal/msg"
	"github.com/marcus/charnotes/internal/notes"
	"github.com/marcus/charnotes/internal/state"
	"github.com/marcus/charnotes/internal/styles"
	"github.com/marcus/charnotes/internal/version"
)

const (
	writeTimeout = 5 * time.Second
	closeTimeout = 10 * time.Second
)

type rootOptions struct {
	configPath string
	character  string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "charnotes",
		Short:         "Per-character notes for the chat host",
		Long:          longRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Effective(Version),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	cmd.SetVersionTemplate("charnotes version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.character, "character", "", "use this character instead of watching the identity file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newDumpCmd(opts), newConfigCmd(opts), newVersionCmd())
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openStore loads configuration and the notes document behind it. The
// returned cleanup closes the store and its backend.
func openStore(ctx context.Context, opts *rootOptions, notify host.Notifier) (*config.Config, *notes.Store, *slog.Logger, func(), error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Logging, opts.debug)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	backend, err := settings.Open(settings.Config{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		Driver:  cfg.Storage.Driver,
	})
	if err != nil {
		closeLog()
		return nil, nil, nil, nil, fmt.Errorf("open settings: %w", err)
	}

	store := notes.NewStore(backend, notes.Options{
		Key:          cfg.Storage.Key,
		Debounce:     cfg.Storage.Debounce,
		WriteTimeout: writeTimeout,
		OnPersistError: func(err error) {
			notify.Notify("Could not save notes: "+err.Error(), host.Warning)
		},
		Logger: logger,
	})

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("close notes store", "err", err)
		}
		if err := backend.Close(); err != nil {
			logger.Error("close settings", "err", err)
		}
		closeLog()
	}

	if err := store.Load(ctx); err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}
	return cfg, store, logger, cleanup, nil
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	notifier := msg.NewNotifier(16)
	defer notifier.Close()

	cfg, store, logger, cleanup, err := openStore(ctx, opts, notifier)
	if err != nil {
		return err
	}
	defer cleanup()

	if !styles.IsValidTheme(cfg.UI.MarkdownTheme) {
		logger.Warn("unknown theme, using dark", "theme", cfg.UI.MarkdownTheme, "available", styles.ListThemes())
	}
	styles.ApplyTheme(cfg.UI.MarkdownTheme)

	// Persistent state is optional.
	if err := state.Init(); err != nil {
		logger.Warn("state init failed", "err", err)
	}

	var ident host.Identity
	if opts.character != "" {
		ident = identity.NewStatic(opts.character)
	} else {
		w, err := identity.NewWatcher(cfg.Identity.File, cfg.Identity.Debounce, logger)
		if err != nil {
			return fmt.Errorf("watch identity: %w", err)
		}
		defer w.Close()
		ident = w
	}

	model := app.New(app.Options{
		Config:   cfg,
		Store:    store,
		Identity: ident,
		Notifier: notifier,
		Logger:   logger,
		Version:  version.Effective(Version),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

var longRoot = `
Keep notes per character, grouped into folders.

The active character is read from the identity file (see "charnotes config
init") and followed as it changes. Press n to open the notes panel.

Examples:
  # Run against the active character.
  charnotes

  # Pin a character for this session.
  charnotes --character "Aria"
`
