package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/marcus/charnotes/internal/config"
	"github.com/marcus/charnotes/internal/host/settings"
	"github.com/marcus/charnotes/internal/notes"
)

func TestDump(t *testing.T) {
	store := notes.NewStore(settings.NewFileStore(t.TempDir()), notes.Options{})
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.SaveNote("Aria", "", -1, "Likes", "tea"); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if _, err := store.SaveNote("Aria", "Quests", -1, "Dragon", "north"); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	var buf bytes.Buffer
	if err := dump(&buf, store, []string{"Aria"}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Aria\n  (root) (1)\n    - Likes\n  Quests (1)\n    - Dragon\n"
	if buf.String() != want {
		t.Errorf("dump output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDump_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := dump(&buf, nil, nil); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "No notes stored.") {
		t.Errorf("dump output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want charmlog.Level
	}{
		{"debug", charmlog.DebugLevel},
		{" WARN ", charmlog.WarnLevel},
		{"error", charmlog.ErrorLevel},
		{"", charmlog.InfoLevel},
		{"loud", charmlog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "charnotes.log")
	logger, closeLog, err := newLogger(config.LoggingConfig{File: path, Level: "info"}, false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("notes loaded", "characters", 2)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "notes loaded") || !strings.Contains(out, "characters=2") {
		t.Errorf("log output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNewLogger_NoFile(t *testing.T) {
	logger, closeLog, err := newLogger(config.LoggingConfig{}, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closeLog()
	logger.Info("discarded")
}

func TestWriteJSON(t *testing.T) {
	doc := []byte(`{"##root##": []}`)

	var plain bytes.Buffer
	if err := writeJSON(&plain, doc, false); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if plain.String() != string(doc)+"\n" {
		t.Errorf("plain output = %q", plain.String())
	}

	var colored bytes.Buffer
	if err := writeJSON(&colored, doc, true); err != nil {
		t.Fatalf("writeJSON color: %v", err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes: %q", colored.String())
	}
	if !strings.Contains(colored.String(), "##root##") {
		t.Errorf("colored output lost content: %q", colored.String())
	}
}
