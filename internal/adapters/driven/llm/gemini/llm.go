// Package gemini provides a chat completion adapter using the Google
// Generative AI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/docchat/internal/adapters/driven/geminiapi"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Completer implements the interface.
var _ driven.Completer = (*Completer)(nil)

// Gemini chat roles.
const (
	roleUser  = "user"
	roleModel = "model"
)

// Config holds configuration for the Gemini completion service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the default model (default: gemini-1.5-flash).
	Model string
}

// Completer sends conversations to a Gemini generative model.
type Completer struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	tracer  trace.Tracer
}

// NewCompleter creates a new Gemini completer.
func NewCompleter(ctx context.Context, cfg Config) (*Completer, error) {
	client, err := geminiapi.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultGeminiModel
	}

	return &Completer{
		client: client,
		model:  cfg.Model,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gemini-completions",
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
		}),
		tracer: otel.Tracer("docchat/gemini"),
	}, nil
}

// Complete sends the conversation. The system message becomes the model's
// system instruction and the final user message is sent as the new turn.
func (c *Completer) Complete(ctx context.Context, messages []domain.Message, model string) (*domain.Completion, error) {
	if model == "" {
		model = c.model
	}

	ctx, span := c.tracer.Start(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", model),
		attribute.Int("gemini.messages", len(messages)),
	)

	system, history, last, err := splitConversation(messages)
	if err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (any, error) {
		gm := c.client.GenerativeModel(model)
		if system != "" {
			gm.SystemInstruction = genai.NewUserContent(genai.Text(system))
		}
		cs := gm.StartChat()
		cs.History = history

		resp, err := cs.SendMessage(ctx, genai.Text(last))
		if err != nil {
			return nil, classify(err)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = domain.NewProviderError(geminiapi.ProviderName, domain.ErrTransient, 0, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	completion := completionFrom(result.(*genai.GenerateContentResponse), model)
	if completion.Usage != nil {
		span.SetAttributes(attribute.Int("gemini.total_tokens", completion.Usage.TotalTokens))
	}
	return completion, nil
}

// classify treats blocked prompts as rejected requests and everything else
// by its transport status.
func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("gemini: %w: %w", domain.ErrProvider, err)
	}
	return geminiapi.Classify(err)
}

// splitConversation separates the system prompt and the final user message
// from the turns in between.
func splitConversation(messages []domain.Message) (string, []*genai.Content, string, error) {
	var system string
	var history []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case domain.RoleUser:
			history = append(history, &genai.Content{Role: roleUser, Parts: []genai.Part{genai.Text(m.Content)}})
		case domain.RoleAssistant:
			history = append(history, &genai.Content{Role: roleModel, Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			return "", nil, "", fmt.Errorf("gemini: unknown role %q: %w", m.Role, domain.ErrInvalidInput)
		}
	}

	if len(history) == 0 || history[len(history)-1].Role != roleUser {
		return "", nil, "", fmt.Errorf("gemini: conversation must end with a user message: %w", domain.ErrInvalidInput)
	}
	last := history[len(history)-1]
	return system, history[:len(history)-1], string(last.Parts[0].(genai.Text)), nil
}

// completionFrom extracts the first candidate's text and the usage counters.
func completionFrom(resp *genai.GenerateContentResponse, model string) *domain.Completion {
	c := &domain.Completion{Model: model}
	if resp == nil {
		return c
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		c.Content = sb.String()
	}

	if u := resp.UsageMetadata; u != nil {
		c.Usage = &domain.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return c
}

// ModelName returns the default model.
func (c *Completer) ModelName() string {
	return c.model
}

// Ping fetches the model metadata, which validates the key.
func (c *Completer) Ping(ctx context.Context) error {
	if _, err := c.client.GenerativeModel(c.model).Info(ctx); err != nil {
		return geminiapi.Classify(err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Completer) Close() error {
	return c.client.Close()
}
