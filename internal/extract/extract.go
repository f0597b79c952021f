// Package extract turns file bytes into text and metadata.
//
// AutoDetect sniffs the media type of the content and dispatches to a
// format-specific parser (PDF, HTML, plain text). Callers never branch on
// the format themselves: they receive a Result or an error wrapping
// ErrMalformed when the content could not be parsed.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Unknown is reported when a content type or encoding cannot be determined.
const Unknown = "<unknown>"

// Media types handled by AutoDetect.
const (
	MediaTypePDF   = "application/pdf"
	MediaTypeHTML  = "text/html"
	MediaTypeXHTML = "application/xhtml+xml"
	MediaTypeText  = "text/plain"
)

// ErrMalformed is wrapped by errors returned for content that cannot be parsed.
var ErrMalformed = errors.New("malformed content")

// Result is the outcome of extracting one file.
type Result struct {
	// Title is the document title, empty when the format has none.
	Title string
	// Body is the extracted text.
	Body string
	// ContentType is the detected media type, with a charset parameter for text.
	ContentType string
	// Encoding is the detected character encoding, empty when not applicable.
	Encoding string
}

// Extractor extracts text and metadata from raw file content.
type Extractor interface {
	// Extract parses data. name is the file name, used only as a detection hint.
	Extract(ctx context.Context, name string, data []byte) (*Result, error)
}

// parser parses content of one media family.
type parser interface {
	parse(ctx context.Context, data []byte, contentType string) (*Result, error)
}

// AutoDetect implements Extractor by sniffing the media type of the content.
type AutoDetect struct {
	pdf  parser
	html parser
	text parser
}

// Verify interface implementation
var _ Extractor = (*AutoDetect)(nil)

// NewAutoDetect creates an extractor for PDF, HTML and plain text content.
func NewAutoDetect() *AutoDetect {
	return &AutoDetect{
		pdf:  pdfParser{},
		html: htmlParser{},
		text: textParser{},
	}
}

// Extract implements Extractor.
// Content of an unsupported media type yields a Result with an empty body.
func (a *AutoDetect) Extract(ctx context.Context, name string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detected := mimetype.Detect(data)
	contentType := detected.String()

	var p parser
	switch {
	case detected.Is(MediaTypePDF):
		p = a.pdf
	case isA(detected, MediaTypeHTML) || isA(detected, MediaTypeXHTML):
		p = a.html
	case isA(detected, MediaTypeText):
		// Plain-text sniffing cannot tell a tag-less HTML fragment apart.
		if isHTMLName(name) {
			p = a.html
		} else {
			p = a.text
		}
	}

	if p == nil {
		slog.Debug("extract_unsupported_type",
			slog.String("name", name),
			slog.String("content_type", contentType))
		return &Result{ContentType: baseType(contentType)}, nil
	}

	result, err := p.parse(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	if result.ContentType == "" {
		result.ContentType = Unknown
	}
	return result, nil
}

// isA reports whether m or one of its ancestors is the given media type.
func isA(m *mimetype.MIME, mediaType string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(mediaType) {
			return true
		}
	}
	return false
}

func isHTMLName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// baseType strips parameters from a media type.
func baseType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return Unknown
	}
	return mediaType
}

// withCharset formats a media type with a charset parameter.
func withCharset(mediaType, charset string) string {
	if charset == "" {
		return mediaType
	}
	return mime.FormatMediaType(mediaType, map[string]string{"charset": charset})
}

// malformed wraps err so that errors.Is(err, ErrMalformed) holds.
func malformed(format string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, format, err)
}
