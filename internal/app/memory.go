package app

import (
	"log/slog"

	"github.com/marcus/charnotes/internal/state"
)

// stateMemory stores the last folder per character in state.json.
type stateMemory struct {
	logger *slog.Logger
}

func (s stateMemory) LastFolder(charID string) string {
	return state.GetLastFolder(charID)
}

func (s stateMemory) SetLastFolder(charID, folder string) {
	if err := state.SetLastFolder(charID, folder); err != nil {
		s.logger.Warn("save last folder", "err", err)
	}
}
