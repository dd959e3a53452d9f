// Package state persists small UI preferences between runs.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences.
type State struct {
	Panel PanelState `json:"panel"`

	// Last folder viewed, keyed by character identifier
	LastFolder map[string]string `json:"lastFolder,omitempty"`
}

// PanelState holds the floating panel's position.
type PanelState struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Moved bool `json:"moved,omitempty"` // false means center the panel
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "charnotes"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	// Exclusive so concurrent saves don't share the temp file.
	mu.Lock()
	defer mu.Unlock()

	if current == nil || path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GetPanelPosition returns the saved panel position. ok is false when the
// panel has never been moved.
func GetPanelPosition() (x, y int, ok bool) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0, 0, false
	}
	p := current.Panel
	return p.X, p.Y, p.Moved
}

// SetPanelPosition saves the panel position.
func SetPanelPosition(x, y int) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.Panel = PanelState{X: x, Y: y, Moved: true}
	mu.Unlock()
	return Save()
}

// GetLastFolder returns the folder last viewed for a character, or "".
func GetLastFolder(charID string) string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastFolder[charID]
}

// SetLastFolder saves the folder last viewed for a character.
func SetLastFolder(charID, folder string) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	if current.LastFolder == nil {
		current.LastFolder = make(map[string]string)
	}
	if current.LastFolder[charID] == folder {
		mu.Unlock()
		return nil
	}
	current.LastFolder[charID] = folder
	mu.Unlock()
	return Save()
}
