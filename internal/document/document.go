// Package document builds the records written to the index, one per file.
//
// Two builders exist. PlainTextBuilder reads .txt files with a configured
// charset and treats any decode failure as fatal to the run.
// ExtractingBuilder delegates to an extract.Extractor and isolates parse
// failures to the file that caused them.
package document

import (
	"context"
	"path/filepath"
)

// Stored field names.
const (
	FieldContent     = "content"
	FieldTitle       = "title"
	FieldFileName    = "fileName"
	FieldFilePath    = "filePath"
	FieldContentType = "contentType"
)

// Document is the record appended to the index for one file.
// FileName and FilePath are always set; the other fields are optional.
type Document struct {
	Content     string
	Title       string
	FileName    string
	FilePath    string // Absolute; identifies the document
	ContentType string
}

// New creates a Document for the file at absPath with identity fields set.
func New(absPath string) *Document {
	return &Document{
		FileName: filepath.Base(absPath),
		FilePath: absPath,
	}
}

// ID returns the document identity used by the index.
func (d *Document) ID() string {
	return d.FilePath
}

// Fields returns the non-empty fields keyed by stored field name.
// Empty optional fields are omitted so they are never written to the index.
func (d *Document) Fields() map[string]string {
	fields := map[string]string{
		FieldFileName: d.FileName,
		FieldFilePath: d.FilePath,
	}
	if d.Content != "" {
		fields[FieldContent] = d.Content
	}
	if d.Title != "" {
		fields[FieldTitle] = d.Title
	}
	if d.ContentType != "" {
		fields[FieldContentType] = d.ContentType
	}
	return fields
}

// Outcome classifies the result of building one file.
type Outcome int

const (
	// OutcomeBuilt means a Document was produced and should be appended.
	OutcomeBuilt Outcome = iota
	// OutcomeSkipped means the file is not handled by the builder.
	OutcomeSkipped
	// OutcomeFailed means the file could not be parsed; the run continues.
	OutcomeFailed
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeBuilt:
		return "built"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Extraction carries diagnostics reported by the extractor for one file.
type Extraction struct {
	ContentType string
	Encoding    string
	TitleLength int // In characters
	BodyLength  int // In characters
}

// Result is the per-file outcome of a Builder.
type Result struct {
	Outcome  Outcome
	Document *Document // Set when Outcome is OutcomeBuilt

	// Err is the per-file error when Outcome is OutcomeFailed.
	Err error

	// Extraction is set by ExtractingBuilder for built files.
	Extraction *Extraction
}

// Builder turns a file into a Result.
// A non-nil error is fatal and must abort the run; per-file failures that
// the run survives are reported through Result.Outcome instead.
type Builder interface {
	Build(ctx context.Context, absPath string) (Result, error)
}
