package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RunLog is the log file of a single run. Opening it moves the logs of
// earlier runs aside as <path>.1, <path>.2 and so on, so every file holds
// exactly one run.
type RunLog struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// OpenRunLog starts a fresh log at path, keeping the logs of the previous
// keep runs. keep of zero discards the previous log.
func OpenRunLog(path string, keep int) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := shiftPrevious(path, keep); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &RunLog{path: path, file: f}, nil
}

// Path returns the log file location.
func (l *RunLog) Path() string {
	return l.path
}

// Write implements io.Writer.
func (l *RunLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}
	return l.file.Write(p)
}

// Close flushes and closes the file. Later calls are no-ops.
func (l *RunLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := errors.Join(l.file.Sync(), l.file.Close())
	l.file = nil
	return err
}

// shiftPrevious renames path to path.1, path.1 to path.2 and so on up to
// path.<keep>, dropping the oldest.
func shiftPrevious(path string, keep int) error {
	if keep <= 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove previous log: %w", err)
		}
		return nil
	}

	if err := os.Remove(numbered(path, keep)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove oldest log: %w", err)
	}
	for i := keep - 1; i >= 1; i-- {
		if err := os.Rename(numbered(path, i), numbered(path, i+1)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to shift log %d: %w", i, err)
		}
	}
	if err := os.Rename(path, numbered(path, 1)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to shift previous log: %w", err)
	}
	return nil
}

func numbered(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
