package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitChange(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case id, ok := <-ch:
		if !ok {
			t.Fatal("changes channel closed unexpectedly")
		}
		return id
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for identity change")
	}
	return ""
}

func TestStatic(t *testing.T) {
	id, ok := NewStatic("c1").Current()
	if id != "c1" || !ok {
		t.Errorf("Current() = %q, %v", id, ok)
	}
	if _, ok := NewStatic("").Current(); ok {
		t.Error("empty static identity should report no character")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "active_character")

	if id, err := ReadFile(path); err != nil || id != "" {
		t.Errorf("missing file = %q, %v", id, err)
	}
	os.WriteFile(path, []byte("  Seraphina  \nignored second line\n"), 0o644)
	if id, _ := ReadFile(path); id != "Seraphina" {
		t.Errorf("ReadFile = %q, want first trimmed line", id)
	}
	os.WriteFile(path, nil, 0o644)
	if id, _ := ReadFile(path); id != "" {
		t.Errorf("empty file = %q", id)
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "active_character")
	if err := WriteFile(path, "c1"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if id, ok := w.Current(); id != "c1" || !ok {
		t.Fatalf("initial Current() = %q, %v", id, ok)
	}

	WriteFile(path, "c2")
	if id := waitChange(t, w.Changes()); id != "c2" {
		t.Errorf("change = %q, want c2", id)
	}
	if id, _ := w.Current(); id != "c2" {
		t.Errorf("Current() = %q, want c2", id)
	}

	os.Remove(path)
	if id := waitChange(t, w.Changes()); id != "" {
		t.Errorf("removal change = %q, want empty", id)
	}
	if _, ok := w.Current(); ok {
		t.Error("no character should be active after removal")
	}
}

func TestWatcher_IgnoresRewriteWithSameID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "active_character")
	WriteFile(path, "c1")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	WriteFile(path, "c1")
	WriteFile(filepath.Join(dir, "unrelated"), "c9")
	select {
	case id := <-w.Changes():
		t.Errorf("unexpected change %q", id)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseClosesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "active_character"), 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if _, ok := w.Current(); ok {
		t.Error("missing file should mean no character")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes should be closed after Close")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "active"), 0, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_SlowConsumerGetsLatest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "active_character")
	WriteFile(path, "c0")

	w, err := NewWatcher(path, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	for i := 1; i <= 10; i++ {
		WriteFile(path, fmt.Sprintf("c%d", i))
		time.Sleep(40 * time.Millisecond)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if id, _ := w.Current(); id == "c10" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never saw the last write")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if id := waitChange(t, w.Changes()); id != "c10" {
		t.Errorf("delivered %q after a burst, want c10", id)
	}
	select {
	case id := <-w.Changes():
		t.Errorf("stale change %q still queued", id)
	default:
	}
}
