package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// RetrieverService finds the chunks of the loaded document nearest to a query.
// It never modifies the corpus.
type RetrieverService struct {
	state    *CorpusState
	embedder *EmbeddingGateway
	topK     int
}

// NewRetrieverService creates a retriever. A non-positive topK uses the default.
func NewRetrieverService(state *CorpusState, embedder *EmbeddingGateway, topK int) *RetrieverService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrieverService{state: state, embedder: embedder, topK: topK}
}

// Retrieve returns up to k chunk texts, most relevant first.
func (r *RetrieverService) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	return r.retrieve(ctx, query, k, "")
}

// retrieve embeds query and searches the corpus. When session is set, the
// corpus must still belong to that session once the embedding returns.
func (r *RetrieverService) retrieve(ctx context.Context, query string, k int, session string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyInput
	}
	if !r.state.Loaded() {
		return nil, domain.ErrNoDocumentLoaded
	}
	if k <= 0 {
		k = r.topK
	}

	logger.Debug("Retrieving top %d chunks for %q", k, query)

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	var texts []string
	err = r.state.View(func(c *IndexedCorpus, active string) error {
		if session != "" && active != session {
			return domain.ErrStaleSession
		}
		var searchErr error
		texts, searchErr = c.Search(vec, k)
		return searchErr
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	logger.Debug("Retrieved %d chunks", len(texts))
	return texts, nil
}
