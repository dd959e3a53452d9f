package msg

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/charnotes/internal/host"
)

// Notifier is a host.Notifier that queues toasts for a tea program.
// Notify never blocks; toasts beyond the buffer are dropped.
type Notifier struct {
	mu     sync.Mutex
	ch     chan ToastMsg
	closed bool
}

// NewNotifier returns a Notifier buffering up to size toasts.
func NewNotifier(size int) *Notifier {
	if size < 1 {
		size = 1
	}
	return &Notifier{ch: make(chan ToastMsg, size)}
}

// Notify implements host.Notifier. It is safe to call from any goroutine.
func (n *Notifier) Notify(message string, severity host.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.ch <- ToastMsg{Message: message, Duration: ToastDuration(severity), Severity: severity}:
	default:
	}
}

// Listen waits for the next toast. Re-issue it after each ToastMsg.
func (n *Notifier) Listen() tea.Cmd {
	return func() tea.Msg {
		t, ok := <-n.ch
		if !ok {
			return nil
		}
		return t
	}
}

// Close stops delivery. Pending Listen commands return nil.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.closed = true
		close(n.ch)
	}
}
