package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/marcus/charnotes/internal/host"
)

var bucketSettings = []byte("extension_settings")

// BoltStore keeps documents in a single bbolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt settings: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSettings)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bolt settings: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Read returns the stored document or host.ErrNotFound.
func (s *BoltStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSettings)
		if b == nil {
			return host.ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return host.ErrNotFound
		}
		// v is only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("read settings %q: %w", key, err)
	}
	return out, nil
}

// Write replaces the document in one transaction.
func (s *BoltStore) Write(ctx context.Context, key string, doc []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSettings)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), doc)
	})
	if err != nil {
		return fmt.Errorf("write settings %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
