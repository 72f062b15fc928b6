package domain

import "time"

// UploadStatusSuccess is reported for a document that was indexed.
const UploadStatusSuccess = "success"

// Upload is a raw document submitted for indexing.
type Upload struct {
	// Filename is the client-supplied name, informational only.
	Filename string

	// ContentType is the MIME type used to select an extractor.
	ContentType string

	// Data is the raw file content.
	Data []byte
}

// UploadResult describes a successfully indexed document.
type UploadResult struct {
	Filename      string
	ExtractedText string
	SessionID     string
	Chunks        int
	Status        string
}

// DocumentStatus describes the currently loaded document, if any.
type DocumentStatus struct {
	Loaded bool

	// Indexing is set while an upload is being extracted and embedded.
	Indexing bool

	Filename  string
	Chunks    int
	Chars     int
	SessionID string
	LoadedAt  time.Time
}
