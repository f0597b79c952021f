// Package scanner enumerates the files folder2index should index.
// It expands root paths breadth-first into an ordered, duplicate-free set of
// absolute file paths, reporting entries it cannot use instead of failing.
package scanner

import (
	"errors"
	"fmt"
)

// Options configures the Enumerator.
type Options struct {
	// ExcludePatterns are glob patterns matched against the path relative to
	// its root and against the base name (e.g. "*.log", "build/**").
	ExcludePatterns []string

	// FollowSymlinks follows symbolic links to files and directories.
	// When false, symlinked entries below a root are skipped.
	FollowSymlinks bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{FollowSymlinks: true}
}

// Reporter receives entries that were excluded from the file set.
// err wraps one of the sentinel errors below.
type Reporter func(path string, err error)

// Sentinel errors passed to a Reporter.
var (
	// ErrUnreadableFile marks a file that is missing or cannot be opened.
	ErrUnreadableFile = errors.New("non-existent or unreadable file")
	// ErrUnreadableDirectory marks a directory whose entries cannot be listed.
	ErrUnreadableDirectory = errors.New("unreadable directory")
	// ErrAlreadyVisited marks a directory reached again through a link.
	ErrAlreadyVisited = errors.New("already visited directory")
)

// Message formats a report as the notice printed to the user.
func Message(path string, err error) string {
	switch {
	case errors.Is(err, ErrUnreadableFile):
		return "Skipping non-existent or unreadable file: " + path
	case errors.Is(err, ErrUnreadableDirectory):
		return "Skipping unreadable directory: " + path
	case errors.Is(err, ErrAlreadyVisited):
		return "Skipping already visited directory: " + path
	default:
		return fmt.Sprintf("Skipping %s: %v", path, err)
	}
}

// FileSet is an insertion-ordered set of absolute file paths.
type FileSet struct {
	paths []string
	index map[string]struct{}
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]struct{})}
}

// Add inserts path unless already present. Reports whether it was added.
func (s *FileSet) Add(path string) bool {
	if _, ok := s.index[path]; ok {
		return false
	}
	s.index[path] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// Contains reports whether path is in the set.
func (s *FileSet) Contains(path string) bool {
	_, ok := s.index[path]
	return ok
}

// Len returns the number of paths.
func (s *FileSet) Len() int {
	return len(s.paths)
}

// Paths returns the paths in first-seen order.
func (s *FileSet) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}
