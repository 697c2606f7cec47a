package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cute-todo/internal/config"
)

func TestDebugLevelFollowsConfig(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}
	NewWithWriter(&buf, true).WithPrefix("store").Debug("shown", "id", 7)
	out := buf.String()
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=7") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closeFn, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Fatalf("log file missing line: %q", string(b))
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil || l.GetLevel() == log.DebugLevel {
		t.Fatal("discard logger should exist and stay above debug")
	}
	l.Info("dropped")
}
