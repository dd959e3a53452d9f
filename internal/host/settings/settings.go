// Package settings provides host persistence backends that store whole
// documents under a namespace key.
package settings

import (
	"fmt"
	"strings"

	"github.com/marcus/charnotes/internal/host"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Store is a host.Persistence that holds resources until closed.
type Store interface {
	host.Persistence
	Close() error
}

// Config selects and locates a backend.
type Config struct {
	Backend string
	// Path is a directory for the file backend and a database file otherwise.
	Path string
	// Driver picks the SQL driver for the sqlite backend: "sqlite3" (cgo) or
	// "sqlite" (pure Go). Empty means "sqlite".
	Driver string
}

// Open returns the backend described by cfg.
func Open(cfg Config) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("settings path is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.Path), nil
	case BackendBolt:
		s, err := OpenBoltStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(cfg.Path, cfg.Driver)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", cfg.Backend)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("settings key is required")
	}
	return nil
}
