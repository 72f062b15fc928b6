package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/app/apptest"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid history URI",
			uri:      "docchat://sessions/abc-123/history",
			expected: "abc-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://sessions/abc-123/history",
			expected: "",
		},
		{
			name:     "missing history suffix",
			uri:      "docchat://sessions/abc-123",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractSessionID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no document is not found", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, nil)))
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest(documentURI))
		assert.Error(t, err)
	})

	t.Run("returns extracted text", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, nil)))
		require.NoError(t, err)
		_, _, err = server.handleUpload(ctx, nil, UploadInput{Path: writeDoc(t, skyDoc)})
		require.NoError(t, err)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest(documentURI))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, skyDoc, result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns session messages", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, apptest.NewCompleter())))
		require.NoError(t, err)
		_, _, err = server.handleUpload(ctx, nil, UploadInput{Path: writeDoc(t, skyDoc)})
		require.NoError(t, err)
		_, answer, err := server.handleAsk(ctx, nil, AskInput{Prompt: "hi"})
		require.NoError(t, err)

		uri := "docchat://sessions/" + answer.SessionID + "/history"
		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		var messages []domain.Message
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &messages))
		require.Len(t, messages, 3)
		assert.Equal(t, domain.RoleSystem, messages[0].Role)
		assert.Equal(t, domain.RoleAssistant, messages[2].Role)
	})

	t.Run("unknown session", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, nil)))
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("docchat://sessions/nope/history"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, nil)))
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("docchat://sessions/nope"))
		assert.Error(t, err)
	})
}
