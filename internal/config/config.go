package config

import (
	"path/filepath"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Storage  StorageConfig  `json:"storage"`
	Identity IdentityConfig `json:"identity"`
	UI       UIConfig       `json:"ui"`
	Logging  LoggingConfig  `json:"logging"`
}

// StorageConfig selects the host settings backend the notes live in.
type StorageConfig struct {
	Backend  string        `json:"backend"` // "file", "bolt" or "sqlite"
	Path     string        `json:"path"`    // directory for "file", database file otherwise
	Driver   string        `json:"driver"`  // sqlite only: "sqlite" or "sqlite3"
	Key      string        `json:"key"`     // settings namespace key
	Debounce time.Duration `json:"debounce"`
}

// IdentityConfig configures where the active character comes from.
type IdentityConfig struct {
	// File holds the active character identifier on its first line.
	File     string        `json:"file"`
	Debounce time.Duration `json:"debounce"`
}

// UIConfig configures the notes panel.
type UIConfig struct {
	PanelWidth    int    `json:"panelWidth"`
	BodyHeight    int    `json:"bodyHeight"`
	MarkdownTheme string `json:"markdownTheme"` // glamour style name
	ShowHelp      bool   `json:"showHelp"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

const (
	defaultPanelWidth = 64
	defaultBodyHeight = 8
	minPanelWidth     = 48
)

// Default returns the default configuration.
func Default() *Config {
	dir := Dir()
	return &Config{
		Storage: StorageConfig{
			Backend:  "file",
			Path:     filepath.Join(dir, "settings"),
			Driver:   "sqlite",
			Key:      "Character-Notes",
			Debounce: 250 * time.Millisecond,
		},
		Identity: IdentityConfig{
			File:     filepath.Join(dir, "active_character"),
			Debounce: 100 * time.Millisecond,
		},
		UI: UIConfig{
			PanelWidth:    defaultPanelWidth,
			BodyHeight:    defaultBodyHeight,
			MarkdownTheme: "dark",
			ShowHelp:      true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(dir, "charnotes.log"),
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors, clamping out-of-range values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "bolt", "sqlite":
	default:
		return &FieldError{Field: "storage.backend", Value: c.Storage.Backend}
	}
	if c.Storage.Backend == "sqlite" {
		switch c.Storage.Driver {
		case "", "sqlite", "sqlite3":
		default:
			return &FieldError{Field: "storage.driver", Value: c.Storage.Driver}
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "Character-Notes"
	}
	if c.Storage.Debounce < 0 {
		c.Storage.Debounce = 250 * time.Millisecond
	}
	if c.Identity.Debounce <= 0 {
		c.Identity.Debounce = 100 * time.Millisecond
	}
	if c.UI.PanelWidth < minPanelWidth {
		c.UI.PanelWidth = defaultPanelWidth
	}
	if c.UI.BodyHeight <= 0 {
		c.UI.BodyHeight = defaultBodyHeight
	}
	return nil
}

// FieldError reports an unsupported configuration value.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return "invalid " + e.Field + ": " + e.Value
}
