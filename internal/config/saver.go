package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Storage  saveStorageConfig  `json:"storage"`
	Identity saveIdentityConfig `json:"identity"`
	UI       UIConfig           `json:"ui"`
	Logging  LoggingConfig      `json:"logging"`
}

type saveStorageConfig struct {
	Backend  string `json:"backend"`
	Path     string `json:"path"`
	Driver   string `json:"driver,omitempty"`
	Key      string `json:"key"`
	Debounce string `json:"debounce"`
}

type saveIdentityConfig struct {
	File     string `json:"file"`
	Debounce string `json:"debounce"`
}

func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Storage: saveStorageConfig{
			Backend:  cfg.Storage.Backend,
			Path:     cfg.Storage.Path,
			Driver:   cfg.Storage.Driver,
			Key:      cfg.Storage.Key,
			Debounce: cfg.Storage.Debounce.String(),
		},
		Identity: saveIdentityConfig{
			File:     cfg.Identity.File,
			Debounce: cfg.Identity.Debounce.String(),
		},
		UI:      cfg.UI,
		Logging: cfg.Logging,
	}
}

// Save writes the config to ConfigPath, keeping keys it does not manage.
func Save(cfg *Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// Unparseable files are replaced rather than merged.
		_ = json.Unmarshal(existing, &merged)
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
