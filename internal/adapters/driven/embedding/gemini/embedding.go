// Package gemini provides an embedding service adapter using the Google
// Generative AI API.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/adapters/driven/geminiapi"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Dimensions is the vector size the model produces (default: 768).
	Dimensions int

	// RequestsPerSecond paces requests. Zero disables pacing.
	RequestsPerSecond float64
}

// EmbeddingService generates embeddings with a Gemini embedding model.
type EmbeddingService struct {
	client     *genai.Client
	em         *genai.EmbeddingModel
	model      string
	dimensions int
	limiter    *rate.Limiter
	tracer     trace.Tracer
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	client, err := geminiapi.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultGeminiEmbedding
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = domain.DefaultGeminiDimensions
	}

	s := &EmbeddingService{
		client:     client,
		em:         client.EmbeddingModel(cfg.Model),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		tracer:     otel.Tracer("docchat/gemini"),
	}
	s.em.TaskType = genai.TaskTypeRetrievalDocument
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts with a single BatchEmbedContents call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, span := s.tracer.Start(ctx, "gemini.batch_embed_contents")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", s.model),
		attribute.Int("gemini.inputs", len(texts)),
	)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, geminiapi.Classify(err)
		}
	}

	batch := s.em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := s.em.BatchEmbedContents(ctx, batch)
	if err != nil {
		err = geminiapi.Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return vectorsFrom(resp, len(texts), s.dimensions)
}

// vectorsFrom validates a batch response against the request.
func vectorsFrom(resp *genai.BatchEmbedContentsResponse, n, dimensions int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != n {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini: got %d embeddings for %d inputs", got, n)
	}
	vectors := make([][]float32, n)
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("gemini: missing embedding for input %d", i)
		}
		if len(e.Values) != dimensions {
			return nil, fmt.Errorf("gemini: embedding has %d dimensions, want %d: %w",
				len(e.Values), dimensions, domain.ErrDimensionMismatch)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model metadata, which validates the key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.em.Info(ctx); err != nil {
		return geminiapi.Classify(err)
	}
	return nil
}

// Close releases the underlying client.
func (s *EmbeddingService) Close() error {
	return s.client.Close()
}
