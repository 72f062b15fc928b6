package services

import (
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ContextDelimiter separates the user's instruction from the retrieved text.
const ContextDelimiter = "---"

// FormatUserMessage builds the user message content for a prompt and its
// retrieved context.
func FormatUserMessage(prompt, context string) string {
	return prompt + "\n\nHere is the text to process:\n\n" +
		ContextDelimiter + "\n" + context + "\n" + ContextDelimiter
}

// ConversationStore keeps bounded per-session message histories.
//
// Each operation is atomic on its own. Callers running a whole turn hold
// Lock for that session so two turns never interleave.
type ConversationStore struct {
	store        driven.SessionStore
	systemPrompt string
	maxTurns     int

	// mu guards read-modify-write cycles on the store.
	mu sync.Mutex

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewConversationStore creates a store. Empty systemPrompt and non-positive
// maxTurns use the defaults.
func NewConversationStore(store driven.SessionStore, systemPrompt string, maxTurns int) *ConversationStore {
	if systemPrompt == "" {
		systemPrompt = domain.DefaultSystemPrompt
	}
	if maxTurns <= 0 {
		maxTurns = domain.DefaultMaxTurns
	}
	return &ConversationStore{
		store:        store,
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
		locks:        make(map[string]*sessionLock),
	}
}

// MaxTurns returns the configured number of retained turns.
func (c *ConversationStore) MaxTurns() int {
	return c.maxTurns
}

// Lock serialises turns of one session and returns the unlock function.
// Different sessions never block each other.
func (c *ConversationStore) Lock(sessionID string) func() {
	c.locksMu.Lock()
	l, ok := c.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		c.locks[sessionID] = l
	}
	l.refs++
	c.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		c.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, sessionID)
		}
		c.locksMu.Unlock()
	}
}

// GetOrInit returns the session history, seeding it with the system message
// when the session is new.
func (c *ConversationStore) GetOrInit(sessionID string) domain.History {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOrInit(sessionID)
}

func (c *ConversationStore) getOrInit(sessionID string) domain.History {
	if h, ok := c.store.Get(sessionID); ok && len(h) > 0 {
		return h
	}
	h := domain.History{{Role: domain.RoleSystem, Content: c.systemPrompt}}
	c.store.Put(sessionID, h)
	return h.Clone()
}

// History returns the stored history of a session.
func (c *ConversationStore) History(sessionID string) (domain.History, bool) {
	return c.store.Get(sessionID)
}

// Compose returns the history followed by the pending user message, without
// storing anything.
func (c *ConversationStore) Compose(sessionID, prompt, context string) []domain.Message {
	h := c.GetOrInit(sessionID)
	return append(h, domain.Message{Role: domain.RoleUser, Content: FormatUserMessage(prompt, context)})
}

// AppendTurn appends a user message combining prompt and context.
func (c *ConversationStore) AppendTurn(sessionID, prompt, context string) {
	c.append(sessionID, domain.Message{Role: domain.RoleUser, Content: FormatUserMessage(prompt, context)})
}

// AppendResponse appends an assistant message.
func (c *ConversationStore) AppendResponse(sessionID, text string) {
	c.append(sessionID, domain.Message{Role: domain.RoleAssistant, Content: text})
}

func (c *ConversationStore) append(sessionID string, msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.getOrInit(sessionID)
	c.store.Put(sessionID, append(h, msg))
}

// Trim drops the oldest turns until at most maxTurns remain.
// The system message is always kept.
func (c *ConversationStore) Trim(sessionID string, maxTurns int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.store.Get(sessionID)
	if !ok {
		return
	}
	if trimmed := h.Trim(maxTurns); len(trimmed) != len(h) {
		c.store.Put(sessionID, trimmed)
	}
}

// Delete forgets a session.
func (c *ConversationStore) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(sessionID)
}
