package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	apperrors "github.com/Aman-CERP/folder2index/internal/errors"
)

// TextSuffix is the literal, case-sensitive suffix of files handled in plain-text mode.
const TextSuffix = ".txt"

// DefaultCharset is the charset used when none is configured.
const DefaultCharset = "UTF-8"

// PlainTextBuilder reads whole .txt files with a fixed charset.
type PlainTextBuilder struct {
	charset     string
	enc         encoding.Encoding
	replacement []byte
}

// Verify interface implementation
var _ Builder = (*PlainTextBuilder)(nil)

// NewPlainTextBuilder resolves charsetName through the IANA registry.
// An unknown or unsupported name is an argument error.
func NewPlainTextBuilder(charsetName string) (*PlainTextBuilder, error) {
	if charsetName == "" {
		charsetName = DefaultCharset
	}

	enc, err := LookupCharset(charsetName)
	if err != nil {
		return nil, err
	}

	return &PlainTextBuilder{
		charset:     charsetName,
		enc:         enc,
		replacement: encodedReplacement(enc),
	}, nil
}

// LookupCharset returns the encoding registered under name.
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, apperrors.New(apperrors.ErrCodeUnknownCharset,
			fmt.Sprintf("unsupported charset %q", name), err).
			WithSuggestion("use an IANA charset name such as UTF-8, ISO-8859-1 or windows-1252")
	}
	return enc, nil
}

// Charset returns the configured charset name.
func (b *PlainTextBuilder) Charset() string {
	return b.charset
}

// Build implements Builder.
// Files without the .txt suffix are skipped. Read and decode failures are
// returned as fatal errors.
func (b *PlainTextBuilder) Build(ctx context.Context, absPath string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if !strings.HasSuffix(absPath, TextSuffix) {
		return Result{Outcome: OutcomeSkipped}, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Result{}, apperrors.ReadError(absPath, err)
	}

	content, err := b.decode(data)
	if err != nil {
		return Result{}, apperrors.DecodeError(absPath, err).
			WithDetail("charset", b.charset).
			WithSuggestion("pass the file's charset with --encoding")
	}

	doc := New(absPath)
	doc.Content = content

	return Result{Outcome: OutcomeBuilt, Document: doc}, nil
}

// decode converts data to UTF-8. Decoding fails on any byte sequence the
// charset does not define. x/text decoders substitute U+FFFD for such input
// instead of failing, so every U+FFFD in the output must be accounted for
// by an encoded U+FFFD in the input.
func (b *PlainTextBuilder) decode(data []byte) (string, error) {
	if b.enc == unicode.UTF8 || b.enc == encoding.Nop {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("malformed %s input at byte %d", b.charset, invalidOffset(data))
		}
		return string(data), nil
	}

	decoded, err := b.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}

	substituted := bytes.Count(decoded, replacementChar)
	if substituted > 0 && (b.replacement == nil || substituted > bytes.Count(data, b.replacement)) {
		at := utf8.RuneCount(decoded[:bytes.Index(decoded, replacementChar)])
		return "", fmt.Errorf("malformed %s input near character %d", b.charset, at)
	}
	return string(decoded), nil
}

var replacementChar = []byte(string(utf8.RuneError))

// encodedReplacement returns the bytes enc writes for U+FFFD, or nil when
// the charset cannot represent it. The "a" prefix keeps a byte order mark
// out of the result.
func encodedReplacement(enc encoding.Encoding) []byte {
	prefix, err := enc.NewEncoder().String("a")
	if err != nil {
		return nil
	}
	both, err := enc.NewEncoder().String("a" + string(utf8.RuneError))
	if err != nil || !strings.HasPrefix(both, prefix) || len(both) == len(prefix) {
		return nil
	}
	return []byte(both[len(prefix):])
}

// invalidOffset returns the offset of the first invalid UTF-8 sequence.
func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
