// Package notes stores titled text notes per character, grouped into
// folders, and persists the whole document through a host settings store.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/persist"
)

// DefaultKey is the settings namespace the document is stored under.
const DefaultKey = "Character-Notes"

// Options configures a Store.
type Options struct {
	// Key is the settings namespace. Empty means DefaultKey.
	Key string
	// Debounce coalesces persist calls arriving within this window.
	Debounce time.Duration
	// WriteTimeout bounds a single backend write.
	WriteTimeout time.Duration
	// OnPersistError is called when a background write fails.
	OnPersistError func(error)
	Logger         *slog.Logger
}

// Store is the in-memory notes document. It is empty and unusable until
// Load succeeds; every mutation must be followed by Persist.
type Store struct {
	backend host.Persistence
	key     string
	writer  *persist.Writer
	logger  *slog.Logger

	mu     sync.Mutex
	loaded bool
	doc    document
}

// NewStore returns an unloaded store backed by backend.
func NewStore(backend host.Persistence, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		backend: backend,
		key:     key,
		logger:  logger,
		doc:     make(document),
	}
	s.writer = persist.NewWriter(func(ctx context.Context, data []byte) error {
		return backend.Write(ctx, key, data)
	}, persist.Options{
		Debounce:     opts.Debounce,
		WriteTimeout: opts.WriteTimeout,
		OnError:      opts.OnPersistError,
		Logger:       logger,
	})
	return s
}

// Load reads the persisted document, upgrading legacy entries. A missing
// document starts empty. Calling Load again first writes any pending
// snapshot, so the reload sees the latest mutations.
func (s *Store) Load(ctx context.Context) error {
	if s.Loaded() {
		if err := s.writer.Flush(ctx); err != nil {
			return fmt.Errorf("load notes: flush pending snapshot: %w", err)
		}
	}
	raw, err := s.backend.Read(ctx, s.key)
	if err != nil && !errors.Is(err, host.ErrNotFound) {
		return fmt.Errorf("load notes: %w", err)
	}

	doc, migrated, err := decodeDocument(raw)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("notes loaded", "characters", len(doc), "migrated", migrated)
	if migrated > 0 {
		return s.Persist()
	}
	return nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// EnsureCharacter creates an empty notebook for charID if it has none.
func (s *Store) EnsureCharacter(charID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotReady
	}
	s.notebookLocked(charID)
	return nil
}

// Characters returns the known character identifiers, sorted.
func (s *Store) Characters() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotReady
	}
	return s.doc.characters(), nil
}

// ListFolders returns the character's folder names, root first, then the
// rest in insertion order. The root folder is always included.
func (s *Store) ListFolders(charID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotReady
	}
	nb, ok := s.doc[charID]
	if !ok {
		return []string{RootFolder}, nil
	}
	return nb.names(), nil
}

// ListNotes returns a copy of the folder's notes. A missing character or
// folder yields an empty slice.
func (s *Store) ListNotes(charID, folder string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotReady
	}
	nb, ok := s.doc[charID]
	if !ok {
		return []Note{}, nil
	}
	notes := nb.folders[NormalizeFolder(folder)]
	out := make([]Note, len(notes))
	copy(out, notes)
	return out, nil
}

// SaveNote overwrites the note at index when it exists in the folder and
// appends a new note otherwise. The folder is created if needed. The title
// must be non-empty after trimming; on failure nothing changes.
func (s *Store) SaveNote(charID, folder string, index int, title, text string) (Locator, error) {
	title = strings.TrimSpace(title)
	folder = NormalizeFolder(folder)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Locator{}, ErrNotReady
	}
	if title == "" {
		return Locator{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	nb := s.notebookLocked(charID)
	notes := nb.ensure(folder)
	note := Note{Title: title, Text: text}
	if index >= 0 && index < len(notes) {
		notes[index] = note
		return Locator{Folder: folder, Index: index}, nil
	}
	notes = append(notes, note)
	nb.set(folder, notes)
	return Locator{Folder: folder, Index: len(notes) - 1}, nil
}

// DeleteNote removes the note at index. An out-of-range index, including
// NewNoteIndex, is ignored.
func (s *Store) DeleteNote(charID, folder string, index int) error {
	folder = NormalizeFolder(folder)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotReady
	}
	nb, ok := s.doc[charID]
	if !ok || !nb.has(folder) {
		return nil
	}
	notes := nb.folders[folder]
	if index < 0 || index >= len(notes) {
		return nil
	}
	out := make([]Note, 0, len(notes)-1)
	out = append(out, notes[:index]...)
	out = append(out, notes[index+1:]...)
	nb.set(folder, out)
	return nil
}

// DeleteFolder removes a folder and all of its notes. The root folder is
// protected. Deleting a folder that does not exist is a no-op.
func (s *Store) DeleteFolder(charID, folder string) error {
	folder = NormalizeFolder(folder)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotReady
	}
	if folder == RootFolder {
		return &ProtectedFolderError{Folder: folder}
	}
	if nb, ok := s.doc[charID]; ok {
		nb.remove(folder)
	}
	return nil
}

// Export returns the indented JSON of one character's notebook, or of the
// whole document when charID is empty.
func (s *Store) Export(charID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotReady
	}
	if charID == "" {
		return json.MarshalIndent(map[string]*Notebook(s.doc), "", "  ")
	}
	nb, ok := s.doc[charID]
	if !ok {
		nb = newNotebook()
	}
	return json.MarshalIndent(nb, "", "  ")
}

// Persist hands a snapshot of the whole document to the background writer
// and returns without waiting for it to land. Snapshots are submitted in
// the order they are taken.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotReady
	}
	data, err := s.doc.encode()
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	return s.writer.Submit(data)
}

// Flush waits until the latest snapshot has been written.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close flushes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

func (s *Store) notebookLocked(charID string) *Notebook {
	nb, ok := s.doc[charID]
	if !ok {
		nb = newNotebook()
		s.doc[charID] = nb
	}
	return nb
}

// NormalizeFolder trims a folder name; a blank name means RootFolder.
func NormalizeFolder(folder string) string {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return RootFolder
	}
	return folder
}
