// Package docx extracts the text of Word (.docx) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// MIMEType is the content type of Office Open XML word documents.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// documentPart is the archive entry holding the body.
const documentPart = "word/document.xml"

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads paragraphs from word/document.xml, including those in tables.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Extract returns one line per non-empty paragraph.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx: %v: %w", err, domain.ErrNoExtractableText)
	}

	for _, f := range archive.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx: open %s: %v: %w", documentPart, err, domain.ErrNoExtractableText)
		}
		defer rc.Close()

		text, err := parseDocument(rc)
		if err != nil {
			return "", fmt.Errorf("docx: parse %s: %v: %w", documentPart, err, domain.ErrNoExtractableText)
		}
		return text, nil
	}

	return "", fmt.Errorf("docx: missing %s: %w", documentPart, domain.ErrNoExtractableText)
}

// parseDocument streams the WordprocessingML body. Text lives in <w:t>
// runs; <w:p> ends a paragraph, <w:tab> and <w:br> map to whitespace.
func parseDocument(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimRight(line, " \t"); strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}
