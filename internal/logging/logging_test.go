package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()

	if filepath.Base(path) != "folder2index.log" {
		t.Errorf("DefaultLogPath should end with folder2index.log, got: %s", path)
	}
	if !strings.Contains(path, ".folder2index") || filepath.Base(filepath.Dir(path)) != "logs" {
		t.Errorf("DefaultLogPath should be inside .folder2index/logs, got: %s", path)
	}
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()

	if cfg.Level != "debug" {
		t.Errorf("expected level 'debug', got: %s", cfg.Level)
	}
	if cfg.KeepRuns != 5 {
		t.Errorf("expected KeepRuns 5, got: %d", cfg.KeepRuns)
	}
	if !cfg.WriteToStderr {
		t.Error("expected WriteToStderr to be true")
	}
}

func TestSetup_WritesJSONWithRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")

	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: logPath, KeepRuns: 2})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("file_indexed", slog.String("path", "/data/a.txt"))
	cleanup()

	content := readFile(t, logPath)
	for _, want := range []string{`"msg":"file_indexed"`, `"path":"/data/a.txt"`, `"level":"DEBUG"`, `"run_id":"`} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %s, got: %s", want, content)
		}
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: logPath})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer cleanup()

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestSetup_EachRunStartsAFreshFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	cfg := Config{Level: "info", FilePath: logPath, KeepRuns: 5}

	for _, event := range []string{"first_run", "second_run"} {
		logger, cleanup, err := Setup(cfg)
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		logger.Info(event)
		cleanup()
	}

	current := readFile(t, logPath)
	if !strings.Contains(current, "second_run") || strings.Contains(current, "first_run") {
		t.Errorf("current log should hold only the second run, got: %s", current)
	}
	if previous := readFile(t, logPath+".1"); !strings.Contains(previous, "first_run") {
		t.Errorf("previous run should be kept as .1, got: %s", previous)
	}
}

func TestOpenRunLog_ShiftsPreviousRuns(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	for _, run := range []string{"a", "b", "c", "d"} {
		l, err := OpenRunLog(logPath, 2)
		if err != nil {
			t.Fatalf("OpenRunLog failed: %v", err)
		}
		if _, err := l.Write([]byte(run)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	want := map[string]string{logPath: "d", logPath + ".1": "c", logPath + ".2": "b"}
	for path, content := range want {
		if got := readFile(t, path); got != content {
			t.Errorf("%s = %q, want %q", filepath.Base(path), got, content)
		}
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("logs older than keep runs should be dropped")
	}
}

func TestOpenRunLog_KeepZeroDiscardsPrevious(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(logPath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := OpenRunLog(logPath, 0)
	if err != nil {
		t.Fatalf("OpenRunLog failed: %v", err)
	}
	defer func() { _ = l.Close() }()

	if got := readFile(t, logPath); got != "" {
		t.Errorf("log should start empty, got: %q", got)
	}
	if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
		t.Error("keep 0 should not leave a .1 file")
	}
	if l.Path() != logPath {
		t.Errorf("Path() = %s, want %s", l.Path(), logPath)
	}
}

func TestRunLog_WriteAfterClose(t *testing.T) {
	l, err := OpenRunLog(filepath.Join(t.TempDir(), "run.log"), 1)
	if err != nil {
		t.Fatalf("OpenRunLog failed: %v", err)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got: %v", err)
	}
	if _, err := l.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestNewRunID(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 30, 5, 250_000_000, time.UTC)

	if got := newRunID(start); got != "20261018T093005.250Z" {
		t.Errorf("newRunID = %s", got)
	}
}

func TestDiscard(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	Discard()

	if slog.Default().Enabled(context.Background(), slog.LevelError) {
		t.Error("discarding logger should not enable any level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
