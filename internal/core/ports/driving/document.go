package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService manages the single loaded document.
type DocumentService interface {
	// Upload extracts, chunks, embeds and indexes a document, replacing any
	// previous one and minting a new active session.
	Upload(ctx context.Context, upload domain.Upload) (*domain.UploadResult, error)

	// Reset clears the document, its index and the active session.
	Reset(ctx context.Context)

	// Status describes the loaded document.
	Status() domain.DocumentStatus

	// Text returns the extracted text of the loaded document.
	Text() (string, error)
}
