package driven

import "context"

// TextExtractor turns raw uploaded bytes into UTF-8 text.
// Returning an empty string is valid for image-only or unreadable input.
type TextExtractor interface {
	// Extract returns the text content of data.
	Extract(ctx context.Context, data []byte) (string, error)

	// SupportedMIMETypes returns the content types this extractor handles.
	SupportedMIMETypes() []string
}
