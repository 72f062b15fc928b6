package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure mocks implement interfaces
var (
	_ driven.EmbeddingService = (*mockEmbedder)(nil)
	_ driven.Completer        = (*mockCompleter)(nil)
	_ driven.TextExtractor    = (*mockExtractor)(nil)
	_ driven.Chunker          = (*mockChunker)(nil)
)

const testDims = 16

// mockEmbedder hashes words into a bag-of-words vector.
type mockEmbedder struct {
	mu         sync.Mutex
	dims       int
	err        error
	calls      int
	batchCalls int
	delay      time.Duration
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: testDims}
}

func (m *mockEmbedder) vector(text string) []float32 {
	v := make([]float32, m.dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,?!")
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%uint32(m.dims)]++
	}
	return v
}

func (m *mockEmbedder) wait(ctx context.Context) error {
	if m.delay == 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls + m.batchCalls
}

// mockCompleter records every request and replies with a fixed completion.
type mockCompleter struct {
	mu       sync.Mutex
	reply    domain.Completion
	err      error
	requests [][]domain.Message
	models   []string
}

func newMockCompleter() *mockCompleter {
	return &mockCompleter{reply: domain.Completion{Content: "answer", Model: "mock-model"}}
}

func (m *mockCompleter) Complete(_ context.Context, messages []domain.Message, model string) (*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, append([]domain.Message(nil), messages...))
	m.models = append(m.models, model)
	if m.err != nil {
		return nil, m.err
	}
	reply := m.reply
	return &reply, nil
}

func (m *mockCompleter) ModelName() string            { return "mock-model" }
func (m *mockCompleter) Ping(_ context.Context) error { return nil }
func (m *mockCompleter) Close() error                 { return nil }

func (m *mockCompleter) lastRequest() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// mockExtractor returns its input bytes as text.
type mockExtractor struct {
	types []string
	err   error
}

func (m *mockExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return string(data), nil
}

func (m *mockExtractor) SupportedMIMETypes() []string { return m.types }

// mockChunker splits text every n runes.
type mockChunker struct {
	n int
}

func (m *mockChunker) Chunk(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += m.n {
		end := start + m.n
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func (m *mockChunker) MaxTokens() int { return m.n }

// testEnv wires the services over mocks and in-memory adapters.
type testEnv struct {
	state         *CorpusState
	embedder      *mockEmbedder
	completer     *mockCompleter
	conversations *ConversationStore
	sessions      *memory.SessionStore
	documents     *DocumentService
	retriever     *RetrieverService
	chat          *ChatService
}

func newTestEnv(maxTurns int) *testEnv {
	env := &testEnv{
		state:     NewCorpusState(),
		embedder:  newMockEmbedder(),
		completer: newMockCompleter(),
		sessions:  memory.NewSessionStore(time.Hour, 100),
	}
	embeddings := NewEmbeddingGateway(env.embedder, 2, time.Second)
	env.conversations = NewConversationStore(env.sessions, "", maxTurns)
	env.documents = NewDocumentService(
		env.state,
		&mockChunker{n: 1000},
		embeddings,
		func() driven.VectorIndex { return flat.New(testDims) },
		env.conversations,
		&mockExtractor{types: []string{"application/pdf", "text/plain"}},
	)
	env.retriever = NewRetrieverService(env.state, embeddings, 3)
	env.chat = NewChatService(env.state, env.retriever, env.conversations,
		NewCompletionGateway(env.completer, time.Second), "")
	return env
}

func (e *testEnv) upload(text string) (*domain.UploadResult, error) {
	return e.documents.Upload(context.Background(), domain.Upload{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Data:        []byte(text),
	})
}
