// Package markdown extracts readable text from Markdown documents.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor strips Markdown syntax and keeps the prose, link text and code.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Extract returns data with Markdown formatting removed.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("markdown: not valid UTF-8: %w", domain.ErrNoExtractableText)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return Strip(strings.ReplaceAll(text, "\r\n", "\n")), nil
}

// Pre-compiled regular expressions, applied in order.
var (
	codeFence     = regexp.MustCompile("(?m)^[ \\t]*```.*$\\n?")
	inlineCode    = regexp.MustCompile("`([^`\\n]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	blockquotes   = regexp.MustCompile(`(?m)^>[ \t]?`)
	rules         = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	bullets       = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numbered      = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	strongStar    = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	strongScore   = regexp.MustCompile(`__([^_\n]+)__`)
	emphStar      = regexp.MustCompile(`\*([^*\n]+)\*`)
	emphScore     = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Strip removes common Markdown formatting. Fenced code keeps its content.
func Strip(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquotes.ReplaceAllString(content, "")
	content = rules.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "")
	content = numbered.ReplaceAllString(content, "")
	content = strongStar.ReplaceAllString(content, "$1")
	content = strongScore.ReplaceAllString(content, "$1")
	content = emphStar.ReplaceAllString(content, "$1")
	content = emphScore.ReplaceAllString(content, "$1")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
