package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Enumerator expands root paths into the set of files to index.
type Enumerator struct {
	opts   Options
	report Reporter
}

// New creates an Enumerator. A nil reporter discards reports.
func New(opts Options, report Reporter) *Enumerator {
	if report == nil {
		report = func(string, error) {}
	}
	return &Enumerator{
		opts:   opts,
		report: report,
	}
}

// entry is a queued path together with the root it was reached from.
type entry struct {
	path string
	root string
}

// Enumerate walks roots breadth-first and returns every readable regular file.
// Roots are processed in argument order; directory children follow in
// listing order. Unusable entries are reported and skipped, so the only
// error returned is context cancellation.
func (e *Enumerator) Enumerate(ctx context.Context, roots []string) (*FileSet, error) {
	files := NewFileSet()
	visited := make(map[string]string) // real path -> first path expanded

	queue := make([]entry, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			e.report(root, fmt.Errorf("%w: %v", ErrUnreadableFile, err))
			continue
		}
		queue = append(queue, entry{path: abs, root: abs})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		current := queue[0]
		queue = queue[1:]

		if current.path != current.root && e.excluded(current) {
			slog.Debug("excluded by pattern", slog.String("path", current.path))
			continue
		}

		info, err := os.Stat(current.path)
		if err != nil {
			e.report(current.path, fmt.Errorf("%w: %v", ErrUnreadableFile, err))
			continue
		}

		if !info.IsDir() {
			e.addFile(files, current.path, info)
			continue
		}

		realPath, err := filepath.EvalSymlinks(current.path)
		if err != nil {
			e.report(current.path, fmt.Errorf("%w: %v", ErrUnreadableDirectory, err))
			continue
		}
		if first, seen := visited[realPath]; seen {
			if first != current.path {
				e.report(current.path, ErrAlreadyVisited)
			}
			continue
		}
		visited[realPath] = current.path

		children, err := listDir(current.path)
		if err != nil {
			e.report(current.path, fmt.Errorf("%w: %v", ErrUnreadableDirectory, err))
			continue
		}

		for _, child := range children {
			isLink := child.Type()&fs.ModeSymlink != 0
			if isLink && !e.opts.FollowSymlinks {
				slog.Debug("skipping symlink", slog.String("path", filepath.Join(current.path, child.Name())))
				continue
			}
			queue = append(queue, entry{
				path: filepath.Join(current.path, child.Name()),
				root: current.root,
			})
		}
	}

	return files, nil
}

// listDir returns the entries of dir in the order the file system reports
// them. Unlike os.ReadDir the result is not sorted by name.
func listDir(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.ReadDir(-1)
}

// addFile adds path if it is a regular file that can be opened for reading.
func (e *Enumerator) addFile(files *FileSet, path string, info fs.FileInfo) {
	if !info.Mode().IsRegular() {
		slog.Debug("skipping non-regular file",
			slog.String("path", path),
			slog.String("mode", info.Mode().String()))
		return
	}

	if files.Contains(path) {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		e.report(path, fmt.Errorf("%w: %v", ErrUnreadableFile, err))
		return
	}
	_ = f.Close()

	files.Add(path)
}

// excluded reports whether a non-root entry matches an exclude pattern.
func (e *Enumerator) excluded(current entry) bool {
	if len(e.opts.ExcludePatterns) == 0 {
		return false
	}

	relPath, err := filepath.Rel(current.root, current.path)
	if err != nil {
		return false
	}
	baseName := filepath.Base(relPath)

	for _, pattern := range e.opts.ExcludePatterns {
		if matchDirPattern(relPath, pattern) || matchFilePattern(baseName, relPath, pattern) {
			return true
		}
	}
	return false
}
