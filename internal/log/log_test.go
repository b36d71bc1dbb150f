package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOutput_TeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.log")

	l := slog.New(slog.NewTextHandler(output(path), nil))
	l.Info("monitoring started", "camera", 0)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "monitoring started") {
		t.Errorf("log file missing record: %q", data)
	}
}

func TestOutput_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.log")

	for _, msg := range []string{"first run", "second run"} {
		l := slog.New(slog.NewTextHandler(output(path), nil))
		l.Info(msg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Errorf("log file missing records: %q", data)
	}
}

func TestOutput_UnopenableFallsBackToStdout(t *testing.T) {
	w := output(filepath.Join(t.TempDir(), "missing", "dir", "vigil.log"))
	if w != os.Stdout {
		t.Errorf("output for unopenable path = %T, want os.Stdout", w)
	}
}
