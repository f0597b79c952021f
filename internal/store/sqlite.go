package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Aman-CERP/folder2index/internal/document"
	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
)

// sqliteFile is the database file inside the target directory.
const sqliteFile = "index.db"

const sqliteSchema = `
CREATE VIRTUAL TABLE documents USING fts5(
	content,
	title,
	fileName UNINDEXED,
	filePath UNINDEXED,
	contentType UNINDEXED,
	tokenize='unicode61'
);`

type sqliteWriter struct {
	db        *sql.DB
	pending   []*document.Document
	batchSize int
	count     int
}

func newSQLiteWriter(path string, batchSize int) (*sqliteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "failed to create index directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "failed to open database", err).
			WithDetail("path", path)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// modernc.org/sqlite ignores most DSN parameters
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "failed to set pragma", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "failed to initialize schema", err)
	}

	return &sqliteWriter{
		db:        db,
		pending:   make([]*document.Document, 0, batchSize),
		batchSize: batchSize,
	}, nil
}

func (s *sqliteWriter) Append(ctx context.Context, doc *document.Document) error {
	s.pending = append(s.pending, doc)
	s.count++

	if len(s.pending) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

// flush inserts pending documents in one transaction.
func (s *sqliteWriter) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents(content, title, fileName, filePath, contentType) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, doc := range s.pending {
		_, err := stmt.ExecContext(ctx,
			nullable(doc.Content),
			nullable(doc.Title),
			doc.FileName,
			doc.FilePath,
			nullable(doc.ContentType))
		if err != nil {
			return apperrors.IndexError(apperrors.ErrCodeIndexWrite,
				fmt.Sprintf("failed to insert %s", doc.FilePath), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "failed to commit batch", err)
	}

	slog.Debug("batch_flushed", slog.Int("documents", len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

// nullable maps empty optional fields to NULL so they are not stored.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *sqliteWriter) Count() int {
	return s.count
}

func (s *sqliteWriter) Close() error {
	// Commit what is pending even if the run was cancelled.
	flushErr := s.flush(context.Background())
	if err := s.db.Close(); err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexClose, "failed to close database", err)
	}
	return flushErr
}
