// Package chunker splits document text into token-bounded chunks.
package chunker

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultMaxTokens is the default number of tokens per chunk.
const DefaultMaxTokens = domain.DefaultMaxChunkTokens

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text into consecutive, non-overlapping chunks measured in
// the tokens of the embedding model, so no chunk exceeds what the provider accepts.
type Processor struct {
	tokenizer driven.Tokenizer
	maxTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the chunk size in tokens.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(tokenizer driven.Tokenizer, opts ...Option) *Processor {
	p := &Processor{
		tokenizer: tokenizer,
		maxTokens: DefaultMaxTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxTokens returns the per-chunk token limit.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// Chunk splits text into ceil(tokens/maxTokens) chunks in document order.
// Empty text produces no chunks.
func (p *Processor) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	tokens := p.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) <= p.maxTokens {
		// Whole input fits, return it verbatim
		return []string{text}
	}

	chunks := make([]string, 0, (len(tokens)+p.maxTokens-1)/p.maxTokens)
	for start := 0; start < len(tokens); start += p.maxTokens {
		end := start + p.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, p.tokenizer.Decode(tokens[start:end]))
	}

	return chunks
}

// Split returns the chunks of text as positioned domain chunks.
func (p *Processor) Split(text string) []domain.Chunk {
	texts := p.Chunk(text)
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{Index: i, Text: t}
	}
	return chunks
}
