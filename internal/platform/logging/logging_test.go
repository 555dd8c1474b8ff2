package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(Config{Level: "DEBUG", Dir: dir, Filename: "client.log"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.InfoTag("ASR", "session %s started", "abc123")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "client.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "[ASR] session abc123 started") {
		t.Errorf("log file missing tagged message, got: %s", data)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Debug("dropped %d", 1)
	logger.Error("also dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on discard logger failed: %v", err)
	}
}
