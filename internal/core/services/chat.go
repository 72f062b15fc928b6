package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// ContextSeparator joins retrieved chunks into one context block.
const ContextSeparator = "\n\n"

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers prompts with retrieved document context and the
// session's conversation history.
type ChatService struct {
	state         *CorpusState
	retriever     *RetrieverService
	conversations *ConversationStore
	completions   *CompletionGateway
	model         string
}

// NewChatService creates a chat service. An empty model uses the default.
func NewChatService(
	state *CorpusState,
	retriever *RetrieverService,
	conversations *ConversationStore,
	completions *CompletionGateway,
	model string,
) *ChatService {
	if model == "" {
		model = domain.DefaultLLMModel
	}
	return &ChatService{
		state:         state,
		retriever:     retriever,
		conversations: conversations,
		completions:   completions,
		model:         model,
	}
}

// Ask runs one turn: retrieve context, compose the prompt with history, call
// the model, record both messages and trim the history.
// The history is only updated when the completion succeeds.
func (s *ChatService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	logger.Section("Chat Turn")

	if !s.completions.Configured() {
		return nil, domain.ErrUnconfigured
	}
	active := s.state.ActiveSession()
	if active == "" {
		return nil, domain.ErrNoDocumentLoaded
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyInput
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = active
	}
	if sessionID != active {
		return nil, domain.ErrStaleSession
	}

	unlock := s.conversations.Lock(sessionID)
	defer unlock()

	chunks, err := s.retriever.retrieve(ctx, prompt, 0, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}
	contextText := strings.Join(chunks, ContextSeparator)

	model := req.Model
	if model == "" {
		model = s.model
	}

	messages := s.conversations.Compose(sessionID, req.Prompt, contextText)
	logger.Debug("Sending %d messages to %s", len(messages), model)

	completion, err := s.completions.Complete(ctx, messages, model)
	if err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}

	answer := &domain.Answer{
		SessionID: sessionID,
		Response:  completion.Content,
		Model:     completion.Model,
		Usage:     completion.Usage,
	}
	if answer.Response == "" {
		answer.Response = domain.NoContentResponse
	}
	if answer.Model == "" {
		answer.Model = domain.UnknownModel
	}

	s.conversations.AppendTurn(sessionID, req.Prompt, contextText)
	s.conversations.AppendResponse(sessionID, answer.Response)
	s.conversations.Trim(sessionID, s.conversations.MaxTurns())

	if answer.Usage != nil {
		logger.Debug("Usage: prompt=%d completion=%d total=%d",
			answer.Usage.PromptTokens, answer.Usage.CompletionTokens, answer.Usage.TotalTokens)
	}
	return answer, nil
}

// History returns the stored messages of any known session.
func (s *ChatService) History(sessionID string) (domain.History, error) {
	h, ok := s.conversations.History(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return h, nil
}
