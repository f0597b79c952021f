// Package store writes document records to a full-text index.
//
// Two backends are supported: bleve (default), where the target directory is
// the index itself, and SQLite FTS5, where the index lives in
// <target>/index.db. Every Open recreates the index from scratch.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/folder2index/internal/document"
	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
)

// Backend names an index implementation.
type Backend string

const (
	// BackendBleve stores the index in a bleve directory (default).
	BackendBleve Backend = "bleve"

	// BackendSQLite stores the index in a SQLite FTS5 table.
	BackendSQLite Backend = "sqlite"
)

// DefaultBatchSize is the number of documents buffered before a flush.
const DefaultBatchSize = 100

// ParseBackend validates a backend name. Empty selects BackendBleve.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case BackendBleve, "":
		return BackendBleve, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown index backend: %s (valid options: bleve, sqlite)", name)
	}
}

// Writer appends documents to an index.
// Close must always be called; it commits pending documents even after a
// failed run and releases the index lock.
type Writer interface {
	Append(ctx context.Context, doc *document.Document) error
	Count() int
	Close() error
}

// Options configures Open.
type Options struct {
	Path      string  // Index target directory
	Backend   Backend // Defaults to BackendBleve
	BatchSize int     // Defaults to DefaultBatchSize
}

// Open locks the target, removes any existing index of the selected backend
// and creates an empty one.
func Open(ctx context.Context, opts Options) (Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Path == "" {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "index path is empty", nil)
	}
	if opts.Backend == "" {
		opts.Backend = BackendBleve
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot resolve index path", err)
	}
	opts.Path = path

	lock := NewFileLock(path + ".lock")
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot lock index", err).
			WithDetail("path", path)
	}
	if !acquired {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexLocked, "index is in use by another process", nil).
			WithDetail("path", path).
			WithSuggestion("wait for the other run to finish or choose another --index")
	}

	w, err := openBackend(opts)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	slog.Info("index_opened",
		slog.String("path", path),
		slog.String("backend", string(opts.Backend)),
		slog.String("lock", lock.Path()),
		slog.Int("batch_size", opts.BatchSize))

	return &lockedWriter{backend: w, lock: lock, path: path}, nil
}

func openBackend(opts Options) (Writer, error) {
	switch opts.Backend {
	case BackendBleve:
		if err := prepareTarget(opts.Path, bleveMetaFile); err != nil {
			return nil, err
		}
		return newBleveWriter(opts.Path, opts.BatchSize)
	case BackendSQLite:
		if err := prepareTarget(opts.Path, sqliteFile); err != nil {
			return nil, err
		}
		return newSQLiteWriter(filepath.Join(opts.Path, sqliteFile), opts.BatchSize)
	default:
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen,
			fmt.Sprintf("unknown index backend: %s", opts.Backend), nil)
	}
}

// prepareTarget clears path for a new index. A directory holding marker is
// an index of the selected backend and is removed; any other non-empty
// directory is refused.
func prepareTarget(path, marker string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot inspect index path", err).
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return apperrors.IndexError(apperrors.ErrCodeIndexOpen, "index path is not a directory", nil).
			WithDetail("path", path)
	}

	if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
		slog.Debug("removing existing index", slog.String("path", path))
		if err := os.RemoveAll(path); err != nil {
			return apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot remove existing index", err).
				WithDetail("path", path)
		}
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot read index path", err).
			WithDetail("path", path)
	}
	if len(entries) > 0 {
		return apperrors.IndexError(apperrors.ErrCodeIndexOpen, "index path is a non-empty directory that is not an index", nil).
			WithDetail("path", path).
			WithSuggestion("choose an empty or new directory for --index")
	}
	return nil
}

// lockedWriter releases the index lock once the backend is closed. The lock
// file itself stays in place so that every process locks the same inode.
type lockedWriter struct {
	backend Writer
	lock    *FileLock
	path    string
	closed  bool
}

func (w *lockedWriter) Append(ctx context.Context, doc *document.Document) error {
	if w.closed {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "index is closed", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.backend.Append(ctx, doc)
}

func (w *lockedWriter) Count() int {
	return w.backend.Count()
}

func (w *lockedWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	closeErr := w.backend.Close()
	if err := w.lock.Unlock(); err != nil {
		closeErr = errors.Join(closeErr,
			apperrors.IndexError(apperrors.ErrCodeIndexClose, "cannot release index lock", err))
	}

	slog.Info("index_closed",
		slog.String("path", w.path),
		slog.Int("documents", w.backend.Count()))

	return closeErr
}
