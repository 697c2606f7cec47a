// Package logging builds the leveled logger shared by every component.
//
// The TUI owns the terminal, so log output goes to a file (or nowhere).
// Components derive their own logger with WithPrefix("store"), WithPrefix("hooks"), ...
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"cute-todo/internal/config"
)

// New returns the root logger and a close func for the underlying file.
func New(cfg config.Config) (*log.Logger, func() error, error) {
	var w io.Writer = io.Discard
	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		if err := config.EnsureDir(filepath.Dir(cfg.LogFile)); err != nil {
			return nil, closeFn, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	return NewWithWriter(w, cfg.Debug), closeFn, nil
}

// NewWithWriter is New without the file handling; tests pass a buffer.
func NewWithWriter(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          "cute-todo",
	})
}

// Discard is a logger that drops everything.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, false)
}
