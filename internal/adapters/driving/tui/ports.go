// Package tui provides an interactive terminal chat over the loaded document.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// DocumentLoader reads a file from disk and uploads it.
type DocumentLoader interface {
	Ingest(ctx context.Context, path string) (*domain.UploadResult, error)
}

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers prompts.
	Chat driving.ChatService

	// Documents describes the loaded document.
	Documents driving.DocumentService

	// Loader reloads the document on a new session. Optional.
	Loader DocumentLoader

	// Path is the file the Loader reads.
	Path string
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Loader != nil && p.Path == "" {
		return ErrMissingDocumentPath
	}
	return nil
}
