package identity

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reads the active character from the first line of a file and
// reports changes as the host rewrites it. A missing or blank file means no
// character is active.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	current string
	timer   *time.Timer
	closed  bool

	fsw     *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// NewWatcher starts watching path. The parent directory must exist; the
// file itself may appear later.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so replace-by-rename writes are seen.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		changes:  make(chan string, 1),
		done:     make(chan struct{}),
	}
	id, err := ReadFile(path)
	if err != nil {
		logger.Warn("read active character", "path", path, "err", err)
	}
	w.current = id

	go w.run()
	return w, nil
}

// Current returns the last identifier read from the file.
func (w *Watcher) Current() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.current != ""
}

// Changes delivers the latest identifier; an undelivered value is replaced
// by a newer one. It is closed by Close.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer func() {
		w.mu.Lock()
		close(w.changes)
		w.mu.Unlock()
	}()

	name := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("identity watcher error", "err", err)
		}
	}
}

// schedule debounces bursts of events into one re-read.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	id, err := ReadFile(w.path)
	if err != nil {
		w.logger.Warn("read active character", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || id == w.current {
		return
	}
	w.current = id
	w.logger.Debug("active character changed", "character", id)
	// Only the latest identifier matters. Replace an undelivered one.
	select {
	case <-w.changes:
	default:
	}
	w.changes <- id
}

// ReadFile returns the trimmed first line of path, or "" if it is missing.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	return string(bytes.TrimSpace(line)), nil
}

// WriteFile records id as the active character, creating parent
// directories as needed.
func WriteFile(path, id string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(id+"\n"), 0o644)
}
