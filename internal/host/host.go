// Package host defines the collaborators the notes add-on consumes from the
// chat host: the active character, a namespaced settings store, and a
// user-facing notification sink.
package host

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Persistence.Read when nothing is stored under
// the requested key.
var ErrNotFound = errors.New("settings key not found")

// Persistence reads and writes whole documents under a namespace key.
type Persistence interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, doc []byte) error
}

// Identity exposes the active character.
// Changes delivers the new identifier whenever it changes; an empty string
// means no character is active. The channel is closed when the source stops.
type Identity interface {
	Current() (string, bool)
	Changes() <-chan string
}

// Severity classifies a notification.
type Severity int

const (
	Success Severity = iota
	Info
	Warning
	Error
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "success"
	}
}

// Notifier surfaces a message to the user. Fire-and-forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, severity Severity)

// Notify calls f(message, severity).
func (f NotifierFunc) Notify(message string, severity Severity) { f(message, severity) }

// Nop discards notifications.
var Nop Notifier = NotifierFunc(func(string, Severity) {})
