package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfParser extracts the plain text of every page and the document title.
type pdfParser struct{}

func (pdfParser) parse(ctx context.Context, data []byte, _ string) (result *Result, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = malformed("pdf", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, malformed("pdf", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, malformed("pdf", err)
	}

	var body bytes.Buffer
	if _, err := io.Copy(&body, textReader); err != nil {
		return nil, malformed("pdf", err)
	}

	title := strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	return &Result{
		Title:       title,
		Body:        strings.TrimSpace(body.String()),
		ContentType: MediaTypePDF,
	}, nil
}
