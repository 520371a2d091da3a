package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesJSONToOutputAndFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "plise.log")

	l := newLogger(Options{File: file, Level: "debug", Output: &buf}).With("component", "test")
	l.Debug("hello", "width", 120)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["component"] != "test" || entry["width"] != float64(120) {
		t.Fatalf("unexpected log entry: %+v", entry)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Equal(raw, buf.Bytes()) {
		t.Fatalf("file and stdout differ: %q vs %q", raw, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestChildLoggerHasSingleComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Component: "server", Level: "info", Output: &buf})

	New("quotes").Info("saved")

	line := buf.String()
	if n := strings.Count(line, `"component"`); n != 1 {
		t.Fatalf("expected one component key, got %d in %q", n, line)
	}
	if !strings.Contains(line, `"component":"quotes"`) {
		t.Fatalf("expected child component, got %q", line)
	}
}
