package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogPath returns the debug log path, ~/.folder2index/logs/folder2index.log.
// Falls back to the temp directory if the home directory is unavailable.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".folder2index", "logs", "folder2index.log")
}
