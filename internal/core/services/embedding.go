package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// EmbeddingGateway wraps an optional EmbeddingService with the per-call
// timeout, batching and result checks every caller relies on.
// It never retries; classified provider errors are returned as they are.
type EmbeddingGateway struct {
	service   driven.EmbeddingService
	batchSize int
	timeout   time.Duration
}

// NewEmbeddingGateway creates a gateway. service may be nil, in which case
// every call fails with domain.ErrUnconfigured.
func NewEmbeddingGateway(service driven.EmbeddingService, batchSize int, timeout time.Duration) *EmbeddingGateway {
	if batchSize <= 0 {
		batchSize = domain.DefaultEmbeddingBatchSize
	}
	if timeout <= 0 {
		timeout = domain.DefaultEmbeddingTimeout
	}
	return &EmbeddingGateway{service: service, batchSize: batchSize, timeout: timeout}
}

// Configured reports whether an embedding provider is available.
func (g *EmbeddingGateway) Configured() bool {
	return g.service != nil
}

// ModelName returns the provider's model, or "" when unconfigured.
func (g *EmbeddingGateway) ModelName() string {
	if g.service == nil {
		return ""
	}
	return g.service.ModelName()
}

// Embed returns the vector for a single text.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.service == nil {
		return nil, domain.ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vec, err := g.service.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", domain.ClassifyContextError("embedding", err))
	}
	return vec, nil
}

// EmbedBatch returns one vector per text in input order.
func (g *EmbeddingGateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if g.service == nil {
		return nil, domain.ErrUnconfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		logger.Debug("Embedding chunks %d-%d of %d", start+1, end, len(texts))
		batch, err := g.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (g *EmbeddingGateway) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	batch, err := g.service.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", domain.ClassifyContextError("embedding", err))
	}
	if len(batch) != len(texts) {
		return nil, fmt.Errorf("embed batch: provider returned %d vectors for %d texts", len(batch), len(texts))
	}
	return batch, nil
}
