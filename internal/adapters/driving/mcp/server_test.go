package mcp

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/app"
	"github.com/custodia-labs/docchat/internal/app/apptest"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// newTestApp wires an app over fakes; completer may be nil.
func newTestApp(t *testing.T, completer driven.Completer) *app.App {
	t.Helper()
	return apptest.NewApp(t, &apptest.Embedder{}, completer)
}

func portsFor(a *app.App) *Ports {
	return &Ports{Documents: a.Documents, Chat: a.Chat, Retrieval: a.Retriever, Loader: a}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		require.Error(t, err)
		assert.Nil(t, server)
	})

	t.Run("missing document service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(portsFor(newTestApp(t, nil)))
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"no documents", &Ports{Chat: a.Chat, Retrieval: a.Retriever}, ErrMissingDocumentService},
		{"no chat", &Ports{Documents: a.Documents, Retrieval: a.Retriever}, ErrMissingChatService},
		{"no retrieval", &Ports{Documents: a.Documents, Chat: a.Chat}, ErrMissingRetrievalService},
		{"loader optional", &Ports{Documents: a.Documents, Chat: a.Chat, Retrieval: a.Retriever}, nil},
		{"all ports", portsFor(a), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
