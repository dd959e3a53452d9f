package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/charnotes/internal/msg"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.MouseMsg:
		// The panel lives below the one-line header.
		message.Y -= headerHeight
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(message)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.panel = m.panel.SetSize(message.Width, message.Height-headerHeight-footerHeight)
		return m, nil

	case TickMsg:
		m.clock = time.Time(message)
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.Severity)
		if m.quitting {
			return m, nil
		}
		return m, m.notifier.Listen()

	case msg.CharacterChangedMsg:
		id := message.ID
		if m.identity == nil {
			m.character = id
			m.panel = m.panel.CharacterChanged(id)
			return m, nil
		}
		// The source may have moved on since the message was sent.
		id, _ = m.identity.Current()
		m.logger.Info("active character changed", "character", id)
		m.character = id
		m.panel = m.panel.CharacterChanged(id)
		return m, msg.ListenIdentity(m.identity.Changes())

	case msg.IdentityClosedMsg:
		m.logger.Debug("identity source closed")
		return m, nil

	case FlushedMsg:
		if message.Err != nil {
			m.logger.Error("flush notes on quit", "err", message.Err)
		}
		return m, tea.Quit
	}

	if m.panel.IsOpen() {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(message)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if k.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.panel.IsOpen() {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(k)
		return m, cmd
	}

	switch k.String() {
	case "q":
		return m.quit()
	case "n":
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Open()
		return m, cmd
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		m.showHelp = false
		return m, nil
	}
	return m, nil
}

// quit flushes pending notes before exiting.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.store == nil {
		return m, tea.Quit
	}
	return m, flushCmd(m.store, quitFlushTimeout)
}
