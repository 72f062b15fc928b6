package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNewCompleter_RequiresKey(t *testing.T) {
	_, err := NewCompleter(context.Background(), Config{})
	assert.True(t, errors.Is(err, domain.ErrUnconfigured))
}

func TestSplitConversation(t *testing.T) {
	system, history, last, err := splitConversation([]domain.Message{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "q1"},
		{Role: domain.RoleAssistant, Content: "a1"},
		{Role: domain.RoleUser, Content: "q2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "be brief", system)
	assert.Equal(t, "q2", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("q1")}, history[0].Parts)
	assert.Equal(t, "model", history[1].Role)
}

func TestSplitConversation_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		messages []domain.Message
	}{
		{"empty", nil},
		{"system only", []domain.Message{{Role: domain.RoleSystem, Content: "s"}}},
		{"ends with assistant", []domain.Message{{Role: domain.RoleUser, Content: "q"}, {Role: domain.RoleAssistant, Content: "a"}}},
		{"unknown role", []domain.Message{{Role: "tool", Content: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := splitConversation(tt.messages)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestCompletionFrom(t *testing.T) {
	t.Run("text and usage", func(t *testing.T) {
		content := &genai.Content{Parts: []genai.Part{genai.Text("Blue"), genai.Text(".")}}
		resp := &genai.GenerateContentResponse{
			Candidates:    []*genai.Candidate{{Content: content}},
			UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 2, TotalTokenCount: 12},
		}

		c := completionFrom(resp, "gemini-1.5-flash")
		assert.Equal(t, "Blue.", c.Content)
		assert.Equal(t, "gemini-1.5-flash", c.Model)
		assert.Equal(t, &domain.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}, c.Usage)
	})

	t.Run("no candidates", func(t *testing.T) {
		c := completionFrom(&genai.GenerateContentResponse{}, "m")
		assert.Equal(t, "", c.Content)
		assert.Nil(t, c.Usage)
	})
}

func TestClassify_Blocked(t *testing.T) {
	err := classify(&genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}})
	assert.True(t, errors.Is(err, domain.ErrProvider))
	assert.False(t, errors.Is(err, domain.ErrTransient))
}
