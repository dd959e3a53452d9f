// Package msg holds the tea messages shared between the shell and the
// notes panel, and the adapters that turn host events into them.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/charnotes/internal/host"
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	Severity host.Severity
}

// IsError reports whether the toast should render as an error.
func (t ToastMsg) IsError() bool {
	return t.Severity == host.Error
}

// ToastDuration returns how long a toast of the given severity stays up.
func ToastDuration(sev host.Severity) time.Duration {
	switch sev {
	case host.Warning:
		return 3 * time.Second
	case host.Error:
		return 5 * time.Second
	default:
		return 2 * time.Second
	}
}

// CharacterChangedMsg reports a new active character. ID is empty when no
// character is active.
type CharacterChangedMsg struct {
	ID string
}

// IdentityClosedMsg reports that the identity source stopped.
type IdentityClosedMsg struct{}

// ListenIdentity waits for the next identity change.
// Re-issue it after each CharacterChangedMsg.
func ListenIdentity(changes <-chan string) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		id, ok := <-changes
		if !ok {
			return IdentityClosedMsg{}
		}
		return CharacterChangedMsg{ID: id}
	}
}
