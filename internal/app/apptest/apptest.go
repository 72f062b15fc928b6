// Package apptest provides in-memory providers for tests of the driving adapters.
package apptest

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/docchat/internal/app"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Dimensions is the vector size produced by Embedder.
const Dimensions = 16

// Ensure fakes implement interfaces
var (
	_ driven.EmbeddingService = (*Embedder)(nil)
	_ driven.Completer        = (*Completer)(nil)
	_ driven.Chunker          = (*WordChunker)(nil)
)

// Embedder hashes words into a bag-of-words vector, so texts sharing words
// are close to each other.
type Embedder struct {
	mu    sync.Mutex
	Err   error
	calls int
}

func (e *Embedder) vector(text string) []float32 {
	v := make([]float32, Dimensions)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,?!")
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%Dimensions]++
	}
	return v
}

// Embed returns the vector of text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vs, err := e.EmbedBatch(context.Background(), []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

// EmbedBatch returns one vector per text.
func (e *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	err := e.Err
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// Calls returns the number of provider requests made.
func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *Embedder) Dimensions() int              { return Dimensions }
func (e *Embedder) ModelName() string            { return "fake-embedding" }
func (e *Embedder) Ping(_ context.Context) error { return nil }
func (e *Embedder) Close() error                 { return nil }

// Completer replies with Reply, or fails with Err, and records requests.
type Completer struct {
	mu       sync.Mutex
	Reply    domain.Completion
	Err      error
	requests [][]domain.Message
}

// NewCompleter returns a completer with a canned reply and usage.
func NewCompleter() *Completer {
	return &Completer{Reply: domain.Completion{
		Content: "The answer.",
		Model:   "fake-model",
		Usage:   &domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}}
}

// Complete records messages and returns the canned reply.
func (c *Completer) Complete(_ context.Context, messages []domain.Message, _ string) (*domain.Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, append([]domain.Message(nil), messages...))
	if c.Err != nil {
		return nil, c.Err
	}
	reply := c.Reply
	return &reply, nil
}

// Requests returns the message sequences sent so far.
func (c *Completer) Requests() [][]domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]domain.Message(nil), c.requests...)
}

func (c *Completer) ModelName() string            { return "fake-model" }
func (c *Completer) Ping(_ context.Context) error { return nil }
func (c *Completer) Close() error                 { return nil }

// WordChunker groups every N words into one chunk.
type WordChunker struct {
	N int
}

// Chunk splits text on whitespace into groups of N words.
func (w WordChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	var chunks []string
	for start := 0; start < len(words); start += w.N {
		end := min(start+w.N, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// MaxTokens returns N.
func (w WordChunker) MaxTokens() int { return w.N }

// NewApp wires an App over the fakes. A nil completer leaves the app unconfigured
// for questions.
func NewApp(t testing.TB, embedder *Embedder, completer driven.Completer) *app.App {
	t.Helper()
	settings := domain.DefaultAppSettings()
	deps := app.Deps{Chunker: WordChunker{N: 5}}
	if embedder != nil {
		deps.Embedder = embedder
	}
	if completer != nil {
		deps.Completer = completer
	}
	a, err := app.New(settings, deps)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}
