// Package app assembles docchat's services from settings and adapters.
//
// Every driving adapter (HTTP, MCP, TUI, one-shot CLI) works against the
// same App, so a document uploaded through one is visible to the others
// running in the same process.
package app

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/docchat/internal/connectors/filesystem"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/extractors/docx"
	"github.com/custodia-labs/docchat/internal/extractors/html"
	"github.com/custodia-labs/docchat/internal/extractors/markdown"
	"github.com/custodia-labs/docchat/internal/extractors/pdf"
	"github.com/custodia-labs/docchat/internal/extractors/plaintext"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// Deps holds the adapters an App is built from. Nil providers leave the
// matching operations failing with domain.ErrUnconfigured; a nil Chunker or
// Sessions gets the default implementation.
type Deps struct {
	Embedder  driven.EmbeddingService
	Completer driven.Completer
	Chunker   driven.Chunker
	Sessions  driven.SessionStore
}

// App is a fully wired docchat instance.
type App struct {
	Settings      domain.AppSettings
	State         *services.CorpusState
	Conversations *services.ConversationStore
	Documents     *services.DocumentService
	Retriever     *services.RetrieverService
	Chat          *services.ChatService

	// Warnings lists non-fatal provider problems found at startup.
	Warnings []string

	embedder  *services.EmbeddingGateway
	completer *services.CompletionGateway
	closers   []func()
}

// New wires services over deps.
func New(settings domain.AppSettings, deps Deps) (*App, error) {
	chunks := deps.Chunker
	if chunks == nil {
		tok, err := tiktoken.New(settings.Embedding.Model)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: %w", err)
		}
		chunks = chunker.New(tok, chunker.WithMaxTokens(settings.Retrieval.MaxChunkTokens))
	}

	sessions := deps.Sessions
	if sessions == nil {
		sessions = memory.NewSessionStore(settings.Conversation.SessionTTL, settings.Conversation.MaxSessions)
	}

	dims := settings.Embedding.Dimensions
	if deps.Embedder != nil {
		dims = deps.Embedder.Dimensions()
	}

	a := &App{
		Settings:  settings,
		State:     services.NewCorpusState(),
		embedder:  services.NewEmbeddingGateway(deps.Embedder, settings.Embedding.BatchSize, settings.Embedding.Timeout),
		completer: services.NewCompletionGateway(deps.Completer, settings.LLM.Timeout),
	}
	a.Conversations = services.NewConversationStore(sessions, settings.Conversation.SystemPrompt, settings.Conversation.MaxTurns)
	a.Retriever = services.NewRetrieverService(a.State, a.embedder, settings.Retrieval.TopK)
	a.Chat = services.NewChatService(a.State, a.Retriever, a.Conversations, a.completer, settings.LLM.Model)
	a.Documents = services.NewDocumentService(
		a.State,
		chunks,
		a.embedder,
		func() driven.VectorIndex { return flat.New(dims) },
		a.Conversations,
		pdf.New(),
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
	)

	logger.Debug("Wired services: embedding=%s dims=%d llm=%s", a.embedder.ModelName(), dims, settings.LLM.Model)
	return a, nil
}

// Start creates the configured providers, pings them and wires an App.
func Start(ctx context.Context, settings domain.AppSettings) (*App, error) {
	providers := ai.Init(ctx, &settings)

	a, err := New(settings, Deps{
		Embedder:  providers.EmbeddingService,
		Completer: providers.Completer,
	})
	if err != nil {
		providers.Close()
		return nil, err
	}
	a.Warnings = providers.Warnings
	a.closers = append(a.closers, providers.Close)
	return a, nil
}

// Configured reports whether questions can be answered.
func (a *App) Configured() bool {
	return a.completer.Configured()
}

// Ingest loads the file at path as the current document.
func (a *App) Ingest(ctx context.Context, path string) (*domain.UploadResult, error) {
	upload, err := filesystem.New(path).Load(ctx)
	if err != nil {
		return nil, err
	}
	return a.Documents.Upload(ctx, upload)
}

// Watch re-ingests the file at path whenever it changes, until ctx is done.
// Failed re-ingests are logged and leave no document loaded.
func (a *App) Watch(ctx context.Context, path string) error {
	source := filesystem.New(path)
	uploads, err := source.Watch(ctx)
	if err != nil {
		return err
	}
	defer source.Close()

	logger.Info("Watching %s for changes", path)
	for upload := range uploads {
		if _, err := a.Documents.Upload(ctx, upload); err != nil {
			logger.Error("Re-ingest of %s failed: %v", path, err)
		}
	}
	return nil
}

// Close releases provider resources.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
