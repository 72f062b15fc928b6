package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers prompts grounded in the loaded document.
type ChatService interface {
	// Ask runs one conversation turn.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error)

	// History returns the stored messages of a session.
	History(sessionID string) (domain.History, error)
}

// RetrievalService finds the chunks most relevant to a query.
type RetrievalService interface {
	// Retrieve returns up to k chunk texts, most relevant first.
	// k <= 0 uses the configured default.
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}
