package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// CompletionGateway wraps an optional Completer with the per-call timeout.
type CompletionGateway struct {
	completer driven.Completer
	timeout   time.Duration
}

// NewCompletionGateway creates a gateway. completer may be nil, in which case
// every call fails with domain.ErrUnconfigured.
func NewCompletionGateway(completer driven.Completer, timeout time.Duration) *CompletionGateway {
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	return &CompletionGateway{completer: completer, timeout: timeout}
}

// Configured reports whether a completion provider is available.
func (g *CompletionGateway) Configured() bool {
	return g.completer != nil
}

// Complete sends messages to the provider. The usage counters are returned
// exactly as the provider reported them.
func (g *CompletionGateway) Complete(ctx context.Context, messages []domain.Message, model string) (*domain.Completion, error) {
	if g.completer == nil {
		return nil, domain.ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	c, err := g.completer.Complete(ctx, messages, model)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", domain.ClassifyContextError("completion", err))
	}
	return c, nil
}
