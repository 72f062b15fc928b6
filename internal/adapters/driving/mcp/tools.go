package mcp

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"local path of the PDF or text file to load"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	Filename  string `json:"filename"`
	SessionID string `json:"session_id"`
	Chunks    int    `json:"chunks"`
	Chars     int    `json:"chars"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Prompt    string `json:"prompt" jsonschema:"the question or instruction about the loaded document"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation to continue (default: the active session)"`
	Model     string `json:"model,omitempty" jsonschema:"completion model to use instead of the configured one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Response  string        `json:"response"`
	Model     string        `json:"model"`
	SessionID string        `json:"session_id"`
	Usage     *domain.Usage `json:"usage,omitempty"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"text to find relevant passages for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []string `json:"passages"`
	Count    int      `json:"count"`
}

// StatusInput is the input schema for the document_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the document_status tool.
type StatusOutput struct {
	Loaded    bool   `json:"loaded"`
	Filename  string `json:"filename,omitempty"`
	Chunks    int    `json:"chunks"`
	Chars     int    `json:"chars"`
	SessionID string `json:"session_id,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	if s.ports.Loader != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upload_document",
			Description: "Load a local PDF or text file, replacing the current document",
		}, s.handleUpload)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the loaded document and the conversation so far",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the passages of the loaded document most relevant to a query",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_status",
		Description: "Describe the currently loaded document",
	}, s.handleStatus)
}

// handleUpload handles the upload_document tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	if s.ports.Loader == nil {
		return nil, UploadOutput{}, errors.New("document loading is not available")
	}
	if input.Path == "" {
		return nil, UploadOutput{}, toolError(domain.ErrInvalidInput)
	}

	result, err := s.ports.Loader.Ingest(ctx, input.Path)
	if err != nil {
		return nil, UploadOutput{}, toolError(err)
	}

	return nil, UploadOutput{
		Filename:  result.Filename,
		SessionID: result.SessionID,
		Chunks:    result.Chunks,
		Chars:     utf8.RuneCountInString(result.ExtractedText),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Ask(ctx, domain.AskRequest{
		SessionID: input.SessionID,
		Prompt:    input.Prompt,
		Model:     input.Model,
	})
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	return nil, AskOutput{
		Response:  answer.Response,
		Model:     answer.Model,
		SessionID: answer.SessionID,
		Usage:     answer.Usage,
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	passages, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, RetrieveOutput{}, toolError(err)
	}

	return nil, RetrieveOutput{Passages: passages, Count: len(passages)}, nil
}

// handleStatus handles the document_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Documents.Status()
	return nil, StatusOutput{
		Loaded:    status.Loaded,
		Filename:  status.Filename,
		Chunks:    status.Chunks,
		Chars:     status.Chars,
		SessionID: status.SessionID,
	}, nil
}
