// Package identity provides sources for the host's active character.
package identity

// Static always reports the same character and never changes.
type Static struct {
	id      string
	changes chan string
}

// NewStatic returns a source fixed to id. An empty id means no character.
func NewStatic(id string) *Static {
	return &Static{id: id, changes: make(chan string)}
}

// Current returns the fixed identifier.
func (s *Static) Current() (string, bool) {
	return s.id, s.id != ""
}

// Changes returns a channel that never delivers.
func (s *Static) Changes() <-chan string {
	return s.changes
}
