package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrUnconfigured", ErrUnconfigured},
		{"ErrNoDocumentLoaded", ErrNoDocumentLoaded},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrNoExtractableText", ErrNoExtractableText},
		{"ErrStaleSession", ErrStaleSession},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrIndexEmpty", ErrIndexEmpty},
		{"ErrProvider", ErrProvider},
		{"ErrAuth", ErrAuth},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrInputTooLarge", ErrInputTooLarge},
		{"ErrTransient", ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNoExtractableText_MatchesEmptyInput(t *testing.T) {
	assert.True(t, errors.Is(ErrNoExtractableText, ErrEmptyInput))
	assert.False(t, errors.Is(ErrEmptyInput, ErrNoExtractableText))
}

func TestProviderError_Matching(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("embed: %w", NewProviderError("openai", ErrRateLimited, 429, cause))

	assert.True(t, errors.Is(err, ErrProvider))
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrAuth))
	assert.False(t, errors.Is(err, ErrUnconfigured))

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "openai", pe.Provider)
	assert.Equal(t, 429, pe.StatusCode)
}

func TestProviderError_Error(t *testing.T) {
	err := NewProviderError("openai", ErrAuth, 401, errors.New("bad key"))
	assert.Equal(t, "openai: authentication failed (status 401): bad key", err.Error())

	bare := NewProviderError("gemini", ErrTransient, 0, nil)
	assert.Equal(t, "gemini: transient provider failure", bare.Error())
}

func TestClassifyContextError(t *testing.T) {
	t.Run("deadline becomes transient", func(t *testing.T) {
		err := ClassifyContextError("openai", fmt.Errorf("send: %w", context.DeadlineExceeded))
		assert.True(t, errors.Is(err, ErrTransient))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("cancel becomes transient", func(t *testing.T) {
		err := ClassifyContextError("openai", context.Canceled)
		assert.True(t, errors.Is(err, ErrTransient))
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		orig := NewProviderError("openai", ErrAuth, 401, context.Canceled)
		assert.Same(t, orig, ClassifyContextError("openai", orig))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		other := errors.New("other")
		assert.Equal(t, other, ClassifyContextError("openai", other))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ClassifyContextError("openai", nil))
	})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unconfigured", fmt.Errorf("ask: %w", ErrUnconfigured), MsgUnconfigured},
		{"no document", ErrNoDocumentLoaded, MsgNoDocumentLoaded},
		{"empty extraction", ErrNoExtractableText, MsgNoExtractableText},
		{"empty prompt", ErrEmptyInput, MsgEmptyPrompt},
		{"unsupported", ErrUnsupportedType, MsgUnsupportedType},
		{"stale", ErrStaleSession, MsgStaleSession},
		{"auth", NewProviderError("openai", ErrAuth, 401, nil), MsgAuth},
		{"rate", NewProviderError("openai", ErrRateLimited, 429, nil), MsgRateLimited},
		{"too large", NewProviderError("openai", ErrInputTooLarge, 400, nil), MsgInputTooLarge},
		{"timeout", NewProviderError("openai", ErrTransient, 0, context.DeadlineExceeded), MsgTimeout},
		{"transient", NewProviderError("openai", ErrTransient, 503, nil), MsgTransient},
		{"internal", ErrIndexEmpty, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
