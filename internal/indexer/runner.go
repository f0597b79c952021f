// Package indexer runs a folder2index pass: open the index, enumerate the
// roots, build a record per file and append it, then close the index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Aman-CERP/folder2index/internal/document"
	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
	"github.com/Aman-CERP/folder2index/internal/output"
	"github.com/Aman-CERP/folder2index/internal/scanner"
	"github.com/Aman-CERP/folder2index/internal/store"
)

// OpenFunc opens an index writer.
type OpenFunc func(ctx context.Context, opts store.Options) (store.Writer, error)

// RunnerConfig configures an indexing run.
type RunnerConfig struct {
	// Index is the target index location.
	Index string

	// Roots are the files and directories to index, in order.
	Roots []string

	// Backend selects the index implementation.
	Backend store.Backend

	// BatchSize is the number of documents per index flush.
	BatchSize int

	// Scan configures file enumeration.
	Scan scanner.Options
}

// RunnerResult contains the outcome of a run.
type RunnerResult struct {
	// IndexPath is the absolute index location.
	IndexPath string

	// Files is the number of enumerated files.
	Files int

	// Indexed is the number of records appended.
	Indexed int

	// Skipped is the number of files the builder does not handle.
	Skipped int

	// Failed is the number of files that could not be parsed.
	Failed int

	// Reported is the number of entries excluded during enumeration.
	Reported int

	// Duration is the total run time.
	Duration time.Duration
}

// RunnerDependencies contains the injected dependencies for Runner.
type RunnerDependencies struct {
	// Output receives progress lines (required).
	Output *output.Writer

	// Builder turns files into records (required).
	Builder document.Builder

	// Open opens the index writer. Defaults to store.Open.
	Open OpenFunc
}

// Runner executes a run with progress reporting.
type Runner struct {
	out     *output.Writer
	builder document.Builder
	open    OpenFunc
}

// NewRunner creates a Runner with injected dependencies.
func NewRunner(deps RunnerDependencies) (*Runner, error) {
	if deps.Output == nil {
		return nil, fmt.Errorf("output writer is required")
	}
	if deps.Builder == nil {
		return nil, fmt.Errorf("document builder is required")
	}

	open := deps.Open
	if open == nil {
		open = store.Open
	}

	return &Runner{
		out:     deps.Output,
		builder: deps.Builder,
		open:    open,
	}, nil
}

// Run indexes cfg.Roots into cfg.Index. The writer is closed, and pending
// documents committed, whether or not the run succeeds. "Index created" is
// printed only on success.
func (r *Runner) Run(ctx context.Context, cfg RunnerConfig) (*RunnerResult, error) {
	start := time.Now()

	indexPath, err := filepath.Abs(cfg.Index)
	if err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "cannot resolve index path", err)
	}

	writer, err := r.open(ctx, store.Options{
		Path:      indexPath,
		Backend:   cfg.Backend,
		BatchSize: cfg.BatchSize,
	})
	if err != nil {
		return nil, err
	}

	result := &RunnerResult{IndexPath: indexPath}

	runErr := r.index(ctx, cfg, writer, result)
	closeErr := writer.Close()
	result.Duration = time.Since(start)

	if err := errors.Join(runErr, closeErr); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "run_failed", apperrors.FormatForLog(err)...)
		return result, err
	}

	slog.Info("run_complete",
		slog.String("index", indexPath),
		slog.Int("files", result.Files),
		slog.Int("indexed", result.Indexed),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration))

	r.out.Successf("Index created: %s", indexPath)
	return result, nil
}

// index enumerates the roots and appends a record per built file.
func (r *Runner) index(ctx context.Context, cfg RunnerConfig, writer store.Writer, result *RunnerResult) error {
	enumerator := scanner.New(cfg.Scan, func(path string, err error) {
		result.Reported++
		r.report(path, err)
	})

	files, err := enumerator.Enumerate(ctx, cfg.Roots)
	if err != nil {
		return err
	}
	result.Files = files.Len()

	for _, path := range files.Paths() {
		if err := ctx.Err(); err != nil {
			return err
		}

		built, err := r.builder.Build(ctx, path)
		if err != nil {
			return err
		}

		switch built.Outcome {
		case document.OutcomeSkipped:
			result.Skipped++
			r.out.Noticef("Skipping non-text file: %s", path)
			slog.Debug("file_skipped", slog.String("path", path))

		case document.OutcomeFailed:
			result.Failed++
			r.out.Failuref("Couldn't parse %s: %v", path, causeOf(built.Err))
			slog.LogAttrs(ctx, slog.LevelWarn, "extraction_failed", apperrors.FormatForLog(built.Err)...)

		case document.OutcomeBuilt:
			r.printBuilt(path, built)
			if err := writer.Append(ctx, built.Document); err != nil {
				return err
			}
			result.Indexed++
			slog.Debug("file_indexed",
				slog.String("path", path),
				slog.String("content_type", built.Document.ContentType))
		}
	}

	return nil
}

// printBuilt prints the per-file lines for a built record.
func (r *Runner) printBuilt(path string, built document.Result) {
	if built.Extraction == nil {
		r.out.Linef("Indexing: %s", path)
		return
	}

	ex := built.Extraction
	r.out.Header("Parsed: " + built.Document.FileName)
	r.out.Detail("Content-type", ex.ContentType)
	r.out.Detail("Content-encoding", ex.Encoding)
	r.out.Detail("Title", strconv.Itoa(ex.TitleLength)+" characters.")
	r.out.Detail("Content", strconv.Itoa(ex.BodyLength)+" characters.")
}

// report prints and logs an entry excluded during enumeration.
func (r *Runner) report(path string, err error) {
	r.out.Notice(scanner.Message(path, err))

	code := apperrors.ErrCodeFileUnreadable
	switch {
	case errors.Is(err, scanner.ErrUnreadableDirectory):
		code = apperrors.ErrCodeDirectoryUnreadable
	case errors.Is(err, scanner.ErrAlreadyVisited):
		code = apperrors.ErrCodeDirectoryCycle
	}

	logged := apperrors.New(code, "skipped "+path, err).WithDetail("path", path)
	slog.LogAttrs(context.Background(), slog.LevelWarn, "entry_skipped", apperrors.FormatForLog(logged)...)
}

// causeOf returns the underlying cause of a structured error for display.
func causeOf(err error) error {
	if e, ok := apperrors.As(err); ok && e.Cause != nil {
		return e.Cause
	}
	return err
}
