// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService // nil when unconfigured
	Completer        driven.Completer        // nil when unconfigured
	Warnings         []string                // Non-fatal issues found while starting.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.Completer != nil {
		r.Completer.Close()
	}
}

// Init creates the configured providers and pings them.
// A provider without a key stays nil, so operations needing it fail with
// domain.ErrUnconfigured. A failed ping is recorded as a warning and the
// provider is kept; the first real request reports the classified error.
func Init(ctx context.Context, settings *domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedding, err := CreateEmbeddingService(ctx, &settings.Embedding)
	switch {
	case err != nil:
		result.warn("embedding provider %s: %v", settings.Embedding.Provider, err)
	case embedding == nil:
		result.warn("embedding provider %s has no API key; uploads are disabled", settings.Embedding.Provider)
	default:
		if err := ping(ctx, embedding.Ping); err != nil {
			result.warn("embedding provider %s unreachable: %v", settings.Embedding.Provider, err)
		}
		result.EmbeddingService = embedding
	}

	completer, err := CreateCompleter(ctx, &settings.LLM)
	switch {
	case err != nil:
		result.warn("llm provider %s: %v", settings.LLM.Provider, err)
	case completer == nil:
		result.warn("llm provider %s has no API key; questions are disabled", settings.LLM.Provider)
	default:
		if err := ping(ctx, completer.Ping); err != nil {
			result.warn("llm provider %s unreachable: %v", settings.LLM.Provider, err)
		}
		result.Completer = completer
	}

	return result
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(context.Background(), settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a completer and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateCompleter(context.Background(), settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:            settings.APIKey,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateCompleter creates the appropriate completion service based on settings.
// Returns nil if the provider is not configured.
func CreateCompleter(ctx context.Context, settings *domain.LLMSettings) (driven.Completer, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewCompleter(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewCompleter(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
