// Package openai provides a chat completion adapter using the OpenAI API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/custodia-labs/docchat/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Completer implements the interface.
var _ driven.Completer = (*Completer)(nil)

// Config holds configuration for the OpenAI completion service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the default chat model (default: gpt-3.5-turbo).
	Model string

	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
}

// Completer sends conversations to /chat/completions.
// Repeated transient failures open a circuit breaker so later calls fail fast.
type Completer struct {
	client  *openaiapi.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *domain.Usage `json:"usage"`
}

// NewCompleter creates a new OpenAI completer.
func NewCompleter(cfg Config) (*Completer, error) {
	client, err := openaiapi.New(openaiapi.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultLLMModel
	}

	return &Completer{
		client:  client,
		model:   cfg.Model,
		breaker: newBreaker("openai-completions"),
	}, nil
}

// newBreaker trips after three consecutive transient failures. Caller
// errors such as a bad key or an oversized prompt do not count.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrTransient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// Complete sends the conversation and returns the first choice.
// An empty model uses the configured default.
func (c *Completer) Complete(ctx context.Context, messages []domain.Message, model string) (*domain.Completion, error) {
	if model == "" {
		model = c.model
	}

	result, err := c.breaker.Execute(func() (any, error) {
		var resp chatResponse
		err := c.client.Post(ctx, "/chat/completions", chatRequest{Model: model, Messages: messages}, &resp)
		return &resp, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewProviderError(openaiapi.ProviderName, domain.ErrTransient, 0, err)
		}
		return nil, err
	}
	resp := result.(*chatResponse)

	completion := &domain.Completion{Model: resp.Model, Usage: resp.Usage}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != nil {
		completion.Content = *resp.Choices[0].Message.Content
	}
	return completion, nil
}

// ModelName returns the default chat model.
func (c *Completer) ModelName() string {
	return c.model
}

// Ping validates the API key against the /models endpoint.
func (c *Completer) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

// Close releases resources.
func (c *Completer) Close() error {
	return nil
}
