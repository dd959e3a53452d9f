package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/marcus/charnotes/internal/config"
)

// newLogger returns a slog logger backed by a charm log handler. The TUI
// owns the terminal, so output goes to the configured file or nowhere.
func newLogger(cfg config.LoggingConfig, debug bool) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)
	if debug {
		level = charmlog.DebugLevel
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "charnotes",
	})
	return slog.New(handler), closeFn, nil
}

// parseLevel maps a config level name to a charm log level, defaulting to info.
func parseLevel(name string) charmlog.Level {
	level, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}
