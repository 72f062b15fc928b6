package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// SessionStore holds conversation histories keyed by session identifier.
// Implementations bound their size, so a stored history may disappear.
type SessionStore interface {
	// Get returns the history for id.
	Get(id string) (domain.History, bool)

	// Put stores history under id, replacing any previous value.
	Put(id string, history domain.History)

	// Delete removes id.
	Delete(id string)

	// Len returns the number of stored sessions.
	Len() int
}
