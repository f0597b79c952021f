package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html/charset"
)

// textParser decodes plain text using the sniffed character encoding.
type textParser struct{}

func (textParser) parse(_ context.Context, data []byte, contentType string) (*Result, error) {
	enc, name, _ := charset.DetermineEncoding(data, contentType)

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, malformed("text", err)
	}

	body := strings.TrimPrefix(strings.ToValidUTF8(string(decoded), "\uFFFD"), "\uFEFF")

	return &Result{
		Body:        body,
		ContentType: withCharset(MediaTypeText, name),
		Encoding:    name,
	}, nil
}
