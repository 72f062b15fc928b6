package domain

// Usage holds the token counters reported by a completion provider.
// Values are passed through exactly as reported.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is a provider response to a message sequence.
type Completion struct {
	// Content is the assistant reply text.
	Content string

	// Model is the model identifier the provider reports having used.
	Model string

	// Usage is nil when the provider reported no counters.
	Usage *Usage
}

// Default texts used when a provider omits a field.
const (
	NoContentResponse = "No content in AI response."
	UnknownModel      = "Unknown model"
)

// Answer is the result of one chat turn.
type Answer struct {
	SessionID string
	Response  string
	Model     string
	Usage     *Usage
}

// AskRequest is a single user turn against the loaded document.
type AskRequest struct {
	// SessionID selects the conversation. Empty means the active session.
	SessionID string

	// Prompt is the user's raw question or instruction.
	Prompt string

	// Model overrides the configured completion model when set.
	Model string
}
