package domain

// Role tags the author of a conversation message.
type Role string

// Conversation roles understood by completion providers.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is a single role-tagged entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered message sequence of one session.
// A non-empty history always starts with exactly one system message.
type History []Message

// Clone returns a copy that shares no backing array with h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// MaxLen returns the bound on history length for maxTurns retained turns.
func MaxLen(maxTurns int) int {
	return 1 + 2*maxTurns
}

// Trim keeps the leading system message plus the most recent 2*maxTurns messages.
// The oldest turns are dropped first. A history within bounds is returned unchanged.
func (h History) Trim(maxTurns int) History {
	if maxTurns < 0 {
		maxTurns = 0
	}
	if len(h) <= MaxLen(maxTurns) {
		return h
	}
	keep := 2 * maxTurns
	out := make(History, 0, keep+1)
	out = append(out, h[0])
	out = append(out, h[len(h)-keep:]...)
	return out
}

// Turns returns the number of user messages in the history.
func (h History) Turns() int {
	n := 0
	for _, m := range h {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
