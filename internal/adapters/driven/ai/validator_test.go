package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestConfigValidator_Unconfigured(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateEmbedding(nil))
	assert.NoError(t, v.ValidateLLM(nil))
	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI}))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderGemini}))
}

func TestConfigValidator_PingsProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	v := NewConfigValidator()

	t.Run("valid key", func(t *testing.T) {
		assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{
			Provider: domain.AIProviderOpenAI, APIKey: "good", BaseURL: server.URL,
		}))
		assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI, APIKey: "good", BaseURL: server.URL,
		}))
	})

	t.Run("rejected key", func(t *testing.T) {
		err := v.ValidateLLM(&domain.LLMSettings{
			Provider: domain.AIProviderOpenAI, APIKey: "bad", BaseURL: server.URL,
		})
		assert.True(t, errors.Is(err, domain.ErrAuth))
	})
}
