package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log of the current run.
	FilePath string
	// KeepRuns is the number of earlier run logs kept beside it (default: 5).
	KeepRuns int
	// WriteToStderr also writes records to stderr.
	WriteToStderr bool
}

// DebugConfig returns configuration for --debug.
func DebugConfig() Config {
	return Config{
		Level:         "debug",
		FilePath:      DefaultLogPath(),
		KeepRuns:      5,
		WriteToStderr: true,
	}
}

// Setup starts the log of a new run and returns a JSON logger writing to it.
// Every record carries the run_id, so mirrored stderr lines can be matched
// to their file. The cleanup function flushes and closes the file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	runLog, err := OpenRunLog(cfg.FilePath, cfg.KeepRuns)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = runLog
	if cfg.WriteToStderr {
		output = io.MultiWriter(runLog, os.Stderr)
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	logger := slog.New(handler).With(slog.String("run_id", newRunID(time.Now())))

	cleanup := func() {
		_ = runLog.Close()
	}

	return logger, cleanup, nil
}

// SetupDebug installs a debug-level run logger as the default logger.
func SetupDebug() (func(), error) {
	cfg := DebugConfig()
	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	slog.Debug("debug_logging_enabled",
		slog.String("log_file", cfg.FilePath),
		slog.Int("pid", os.Getpid()))
	return cleanup, nil
}

// Discard installs a default logger that drops every record.
func Discard() {
	slog.SetDefault(slog.New(slog.DiscardHandler))
}

// newRunID formats the run start time as a sortable identifier.
func newRunID(start time.Time) string {
	return start.UTC().Format("20060102T150405.000Z")
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
