package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(context.Background(), Config{})
	assert.True(t, errors.Is(err, domain.ErrUnconfigured))
}

func TestVectorsFrom(t *testing.T) {
	t.Run("in order", func(t *testing.T) {
		resp := &genai.BatchEmbedContentsResponse{Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{1, 2}},
			{Values: []float32{3, 4}},
		}}
		got, err := vectorsFrom(resp, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, got)
	})

	t.Run("count mismatch", func(t *testing.T) {
		resp := &genai.BatchEmbedContentsResponse{Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}}}
		_, err := vectorsFrom(resp, 2, 1)
		assert.Error(t, err)
	})

	t.Run("nil response", func(t *testing.T) {
		_, err := vectorsFrom(nil, 1, 1)
		assert.Error(t, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		resp := &genai.BatchEmbedContentsResponse{Embeddings: []*genai.ContentEmbedding{{Values: []float32{1}}}}
		_, err := vectorsFrom(resp, 1, 768)
		assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	})
}
