package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Completer produces assistant replies from a role-tagged message sequence.
// When nil, chat operations fail with domain.ErrUnconfigured.
//
// Implementations may include:
//   - OpenAI chat completions (gpt-3.5-turbo, gpt-4o-mini)
//   - Google Gemini (gemini-1.5-flash)
type Completer interface {
	// Complete sends messages to the model and returns its reply.
	// An empty model uses the implementation's default.
	// Usage is left nil when the provider does not report token counters.
	Complete(ctx context.Context, messages []domain.Message, model string) (*domain.Completion, error)

	// ModelName returns the default model.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
