package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// DocumentLoader loads a document from a local path.
type DocumentLoader interface {
	Ingest(ctx context.Context, path string) (*domain.UploadResult, error)
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents reports and resets the loaded document.
	Documents driving.DocumentService

	// Chat answers questions about the document.
	Chat driving.ChatService

	// Retrieval searches the document.
	Retrieval driving.RetrievalService

	// Loader reads documents from disk. Optional; without it the
	// upload_document tool is not offered.
	Loader DocumentLoader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Documents == nil:
		return ErrMissingDocumentService
	case p.Chat == nil:
		return ErrMissingChatService
	case p.Retrieval == nil:
		return ErrMissingRetrievalService
	}
	return nil
}
