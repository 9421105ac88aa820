package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/glasspane/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("failed to apply opacity", "handle", 42, "title", "Notepad")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "handle=42") || !strings.Contains(out, "title=Notepad") {
		t.Fatalf("missing attributes: %q", out)
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "glasspane.log")
	w, err := NewRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	chunk := bytes.Repeat([]byte("x"), 400*1024)
	for i := 0; i < 8; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
		if info.Size() > 1024*1024 {
			t.Fatalf("%s exceeds limit: %d", p, info.Size())
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 rotated files")
	}
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glasspane.log")
	if err := os.WriteFile(path, []byte("first\n"), 0600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w, err := NewRotatingFile(path, 10, 3)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	w.Write([]byte("second\n"))
	w.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "first\nsecond\n" {
		t.Fatalf("content = %q", data)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Fatalf("write after close should fail")
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggingConfig{File: filepath.Join(dir, "g.log"), Level: "error", MaxSizeMB: 1, MaxFiles: 1}

	logger, closer, err := OpenFile(cfg, "debug")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Debug("scan started", "windows", 3)
	closer.Close()

	data, _ := os.ReadFile(cfg.File)
	if !strings.Contains(string(data), "scan started") {
		t.Fatalf("override level not honored: %q", data)
	}

	cfg.Disabled = true
	cfg.File = filepath.Join(dir, "disabled.log")
	logger, closer, err = OpenFile(cfg, "")
	if err != nil {
		t.Fatalf("disabled open: %v", err)
	}
	logger.Error("dropped")
	closer.Close()
	if _, err := os.Stat(cfg.File); !os.IsNotExist(err) {
		t.Fatalf("disabled logging must not create a file")
	}
}
