// Package app is the root bubbletea model: a minimal host shell that
// shows the active character and opens the notes panel.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/charnotes/internal/config"
	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/msg"
	"github.com/marcus/charnotes/internal/panel"
	"github.com/marcus/charnotes/internal/state"
)

const (
	quitFlushTimeout = 5 * time.Second
	headerHeight     = 1
	footerHeight     = 1
)

// Flusher waits for pending writes.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Store is what the shell needs from the notes store.
type Store interface {
	panel.Store
	Flusher
}

// Options wires the shell's collaborators.
type Options struct {
	Config   *config.Config
	Store    Store
	Identity host.Identity
	Notifier *msg.Notifier
	Logger   *slog.Logger
	Version  string
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	store    Store
	identity host.Identity
	notifier *msg.Notifier
	logger   *slog.Logger
	version  string

	panel panel.Model

	// UI state
	width, height int
	ready         bool
	showHelp      bool
	character     string
	clock         time.Time
	quitting      bool

	// Status/toast messages
	statusMsg      string
	statusExpiry   time.Time
	statusSeverity host.Severity
}

// New creates the root model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = msg.NewNotifier(16)
	}

	ctrl := panel.NewController(opts.Store, opts.Identity, notifier, panel.Options{
		Memory: stateMemory{logger: logger},
		Logger: logger,
	})
	pcfg := panel.Config{
		Width:      cfg.UI.PanelWidth,
		BodyHeight: cfg.UI.BodyHeight,
		ShowHelp:   cfg.UI.ShowHelp,
		OnMove: func(x, y int) {
			if err := state.SetPanelPosition(x, y); err != nil {
				logger.Warn("save panel position", "err", err)
			}
		},
	}
	if x, y, ok := state.GetPanelPosition(); ok {
		pcfg.Position = &panel.Point{X: x, Y: y}
	}

	m := Model{
		cfg:      cfg,
		store:    opts.Store,
		identity: opts.Identity,
		notifier: notifier,
		logger:   logger,
		version:  opts.Version,
		panel:    panel.New(ctrl, pcfg),
		clock:    time.Now(),
	}
	if opts.Identity != nil {
		m.character, _ = opts.Identity.Current()
	}
	return m
}

// Init starts the clock and the host event listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.notifier.Listen()}
	if m.identity != nil {
		cmds = append(cmds, msg.ListenIdentity(m.identity.Changes()))
	}
	return tea.Batch(cmds...)
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(text string, duration time.Duration, sev host.Severity) {
	m.statusMsg = text
	m.statusSeverity = sev
	m.statusExpiry = time.Now().Add(duration)
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusSeverity = host.Success
	}
}

// Panel returns the notes panel model.
func (m Model) Panel() panel.Model {
	return m.panel
}
