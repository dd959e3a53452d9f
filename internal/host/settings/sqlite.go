package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/marcus/charnotes/internal/host"
)

// SQL driver names registered by the imported drivers.
const (
	DriverCgo    = "sqlite3"
	DriverPureGo = "sqlite"
)

// SQLiteStore keeps documents in an extension_settings table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the database at path with the named driver.
func OpenSQLiteStore(path, driver string) (*SQLiteStore, error) {
	driver = strings.TrimSpace(driver)
	if driver == "" {
		driver = DriverPureGo
	}
	if driver != DriverCgo && driver != DriverPureGo {
		return nil, fmt.Errorf("unknown sqlite driver %q", driver)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
	if driver == DriverPureGo {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS extension_settings (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the stored document or host.ErrNotFound.
func (s *SQLiteStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM extension_settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, host.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query settings %q: %w", key, err)
	}
	return value, nil
}

// Write upserts the document.
func (s *SQLiteStore) Write(ctx context.Context, key string, doc []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extension_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert settings %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
