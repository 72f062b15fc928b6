// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants load a document, search it and ask grounded questions.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Port validation errors.
var (
	ErrMissingDocumentService  = errors.New("mcp: document service is required")
	ErrMissingChatService      = errors.New("mcp: chat service is required")
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
)

// toolError prefixes err with the user-facing reason so assistants can act on it.
func toolError(err error) error {
	return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
}
