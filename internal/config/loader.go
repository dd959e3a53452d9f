package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configDir      = ".config/charnotes"
	configFile     = "config.json"
	configFileTOML = "config.toml"
)

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// rawConfig is the unmarshaling intermediary for JSON and TOML.
type rawConfig struct {
	Storage  rawStorageConfig  `json:"storage" toml:"storage"`
	Identity rawIdentityConfig `json:"identity" toml:"identity"`
	UI       rawUIConfig       `json:"ui" toml:"ui"`
	Logging  rawLoggingConfig  `json:"logging" toml:"logging"`
}

type rawStorageConfig struct {
	Backend  string `json:"backend" toml:"backend"`
	Path     string `json:"path" toml:"path"`
	Driver   string `json:"driver" toml:"driver"`
	Key      string `json:"key" toml:"key"`
	Debounce string `json:"debounce" toml:"debounce"`
}

type rawIdentityConfig struct {
	File     string `json:"file" toml:"file"`
	Debounce string `json:"debounce" toml:"debounce"`
}

type rawUIConfig struct {
	PanelWidth    *int   `json:"panelWidth" toml:"panel_width"`
	BodyHeight    *int   `json:"bodyHeight" toml:"body_height"`
	MarkdownTheme string `json:"markdownTheme" toml:"markdown_theme"`
	ShowHelp      *bool  `json:"showHelp" toml:"show_help"`
}

type rawLoggingConfig struct {
	File  string `json:"file" toml:"file"`
	Level string `json:"level" toml:"level"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/charnotes/config.json, falling back to
// config.toml in the same directory. Files ending in .toml are parsed as TOML.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			alt := filepath.Join(filepath.Dir(path), configFileTOML)
			if _, err := os.Stat(alt); err == nil {
				path = alt
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if strings.HasSuffix(path, ".toml") {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Identity.File = ExpandPath(cfg.Identity.File)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(raw.Storage.Backend)
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = raw.Storage.Driver
	}
	if raw.Storage.Key != "" {
		cfg.Storage.Key = raw.Storage.Key
	}
	if raw.Storage.Debounce != "" {
		if d, err := time.ParseDuration(raw.Storage.Debounce); err == nil {
			cfg.Storage.Debounce = d
		}
	}

	// Identity
	if raw.Identity.File != "" {
		cfg.Identity.File = raw.Identity.File
	}
	if raw.Identity.Debounce != "" {
		if d, err := time.ParseDuration(raw.Identity.Debounce); err == nil {
			cfg.Identity.Debounce = d
		}
	}

	// UI
	if raw.UI.PanelWidth != nil {
		cfg.UI.PanelWidth = *raw.UI.PanelWidth
	}
	if raw.UI.BodyHeight != nil {
		cfg.UI.BodyHeight = *raw.UI.BodyHeight
	}
	if raw.UI.MarkdownTheme != "" {
		cfg.UI.MarkdownTheme = raw.UI.MarkdownTheme
	}
	if raw.UI.ShowHelp != nil {
		cfg.UI.ShowHelp = *raw.UI.ShowHelp
	}

	// Logging
	if raw.Logging.File != "" {
		cfg.Logging.File = raw.Logging.File
	}
	if raw.Logging.Level != "" {
		cfg.Logging.Level = raw.Logging.Level
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Dir returns the configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configDir
	}
	return filepath.Join(home, configDir)
}

// ConfigPath returns the path to the JSON config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	return filepath.Join(Dir(), configFile)
}

// SetTestConfigPath points ConfigPath at path for the duration of a test.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default ConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }
