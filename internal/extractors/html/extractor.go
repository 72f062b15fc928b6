// Package html extracts readable text from HTML pages.
package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor keeps the visible text of a page, one block element per line.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// hidden elements contribute no text.
var hidden = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"template": true,
}

// block elements start a new line.
var block = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "title": true,
}

var multiSpaces = regexp.MustCompile(`[ \t\r\f]+`)

// Extract returns the text of data with markup, scripts and styles removed.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	var b strings.Builder
	depth := 0 // inside hidden elements

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return tidy(b.String()), nil
			}
			return "", fmt.Errorf("html: %v: %w", z.Err(), domain.ErrNoExtractableText)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if hidden[tag] && tt == html.StartTagToken {
				depth++
			}
			if block[tag] {
				b.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if hidden[tag] && depth > 0 {
				depth--
			}
			if block[tag] {
				b.WriteByte('\n')
			}

		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// tidy collapses runs of spaces and drops blank lines.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
