package document

import (
	"context"
	"errors"
	"os"
	"unicode/utf8"

	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
	"github.com/Aman-CERP/folder2index/internal/extract"
)

// ExtractingBuilder delegates parsing to an extract.Extractor.
type ExtractingBuilder struct {
	extractor extract.Extractor
}

// Verify interface implementation
var _ Builder = (*ExtractingBuilder)(nil)

// NewExtractingBuilder creates a builder backed by extractor.
// A nil extractor selects extract.NewAutoDetect.
func NewExtractingBuilder(extractor extract.Extractor) *ExtractingBuilder {
	if extractor == nil {
		extractor = extract.NewAutoDetect()
	}
	return &ExtractingBuilder{extractor: extractor}
}

// Build implements Builder.
// Content the extractor cannot parse yields OutcomeFailed; read failures
// are fatal.
func (b *ExtractingBuilder) Build(ctx context.Context, absPath string) (Result, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Result{}, apperrors.ReadError(absPath, err)
	}

	doc := New(absPath)

	extracted, err := b.extractor.Extract(ctx, doc.FileName, data)
	if err != nil {
		if errors.Is(err, extract.ErrMalformed) {
			return Result{
				Outcome: OutcomeFailed,
				Err:     apperrors.ExtractionError(absPath, err),
			}, nil
		}
		return Result{}, err
	}

	contentType := firstNonEmpty(extracted.ContentType, extract.Unknown)

	doc.Title = extracted.Title
	doc.Content = extracted.Body
	doc.ContentType = contentType

	return Result{
		Outcome:  OutcomeBuilt,
		Document: doc,
		Extraction: &Extraction{
			ContentType: contentType,
			Encoding:    firstNonEmpty(extracted.Encoding, extract.Unknown),
			TitleLength: utf8.RuneCountInString(extracted.Title),
			BodyLength:  utf8.RuneCountInString(extracted.Body),
		},
	}, nil
}

func firstNonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
