package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := InitWithOptions(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestConsoleOutputFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(Options{Level: "warn", Console: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(Options{}) }()

	Log.Info("hidden")
	Log.Warn("shown", zap.Int("books", 3))
	Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "books") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "bookshelf.log")

	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	if err := InitWithOptions(Options{Level: "debug", File: cfg}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(Options{}) }()

	Sugar.Debugw("frame", "triangles", 128)
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "frame" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["triangles"] != float64(128) {
		t.Errorf("expected triangles=128, got %v", entry["triangles"])
	}
}

func TestNopByDefault(t *testing.T) {
	if err := InitWithOptions(Options{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	// Must not panic with no cores.
	Log.Error("discarded")
	Sync()
}

func TestInitWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "init.log")
	if err := Init("info", logFile); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(Options{}) }()

	Log.Debug("below level")
	Log.Info("stocked")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "below level") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(string(data), "stocked") {
		t.Errorf("info entry missing: %q", data)
	}
}
