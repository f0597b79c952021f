package store

import (
	"context"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Aman-CERP/folder2index/internal/document"
	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
)

// bleveMetaFile marks a directory as a bleve index.
const bleveMetaFile = "index_meta.json"

type bleveWriter struct {
	index     bleve.Index
	batch     *bleve.Batch
	batchSize int
	count     int
}

func newBleveWriter(path string, batchSize int) (*bleveWriter, error) {
	idx, err := bleve.New(path, newIndexMapping())
	if err != nil {
		return nil, apperrors.IndexError(apperrors.ErrCodeIndexOpen, "failed to create bleve index", err).
			WithDetail("path", path)
	}

	return &bleveWriter{
		index:     idx,
		batch:     idx.NewBatch(),
		batchSize: batchSize,
	}, nil
}

// newIndexMapping maps content and title as analysed text and the
// remaining fields as single keyword terms. All fields are stored.
func newIndexMapping() *mapping.IndexMappingImpl {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = true

	kw := bleve.NewKeywordFieldMapping()
	kw.Analyzer = keyword.Name
	kw.Store = true

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(document.FieldContent, text)
	doc.AddFieldMappingsAt(document.FieldTitle, text)
	doc.AddFieldMappingsAt(document.FieldFileName, kw)
	doc.AddFieldMappingsAt(document.FieldFilePath, kw)
	doc.AddFieldMappingsAt(document.FieldContentType, kw)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = doc
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

func (b *bleveWriter) Append(_ context.Context, doc *document.Document) error {
	fields := make(map[string]interface{}, 5)
	for k, v := range doc.Fields() {
		fields[k] = v
	}

	if err := b.batch.Index(doc.ID(), fields); err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "failed to add document", err).
			WithDetail("path", doc.FilePath)
	}
	b.count++

	if b.batch.Size() >= b.batchSize {
		return b.flush()
	}
	return nil
}

func (b *bleveWriter) flush() error {
	if b.batch.Size() == 0 {
		return nil
	}

	size := b.batch.Size()
	if err := b.index.Batch(b.batch); err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexWrite, "failed to execute batch", err)
	}
	b.batch.Reset()

	slog.Debug("batch_flushed", slog.Int("documents", size))
	return nil
}

func (b *bleveWriter) Count() int {
	return b.count
}

func (b *bleveWriter) Close() error {
	flushErr := b.flush()
	if err := b.index.Close(); err != nil {
		return apperrors.IndexError(apperrors.ErrCodeIndexClose, "failed to close bleve index", err)
	}
	return flushErr
}
