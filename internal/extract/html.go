package extract

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const blockSelector = "p, div, br, hr, h1, h2, h3, h4, h5, h6, li, tr, td, th, " +
	"blockquote, pre, table, section, article, header, footer, nav, aside, dt, dd"

var (
	multiSpaces   = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlParser extracts the title and visible body text of an HTML document.
type htmlParser struct{}

func (htmlParser) parse(ctx context.Context, data []byte, contentType string) (*Result, error) {
	enc, name, _ := charset.DetermineEncoding(data, contentType)

	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, malformed("html", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := normalizeText(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, template, head").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}

	return &Result{
		Title:       title,
		Body:        normalizeText(text),
		ContentType: withCharset(MediaTypeHTML, name),
		Encoding:    name,
	}, nil
}

// normalizeText collapses horizontal whitespace, trims each line and
// drops blank lines.
func normalizeText(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
