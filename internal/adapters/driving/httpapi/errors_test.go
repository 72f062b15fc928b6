package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unconfigured", domain.ErrUnconfigured, http.StatusServiceUnavailable, CodeProviderUnconfigured},
		{"no document", domain.ErrNoDocumentLoaded, http.StatusBadRequest, CodeNoDocumentLoaded},
		{"no text before empty input", domain.ErrNoExtractableText, http.StatusUnsupportedMediaType, CodeNoExtractableText},
		{"empty prompt", domain.ErrEmptyInput, http.StatusBadRequest, CodeEmptyPrompt},
		{"unsupported type", fmt.Errorf("upload: %w", domain.ErrUnsupportedType), http.StatusBadRequest, CodeInvalidFileType},
		{"stale session", domain.ErrStaleSession, http.StatusConflict, CodeStaleSession},
		{"not found", domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidRequest},
		{"cancelled", domain.ClassifyContextError("x", context.Canceled), http.StatusBadGateway, CodeProviderUnavailable},
		{"deadline", domain.ClassifyContextError("x", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeProviderTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Session not found.", message(CodeNotFound, domain.ErrNotFound))
	assert.Equal(t, domain.MsgRateLimited, message(CodeProviderRateLimited,
		domain.NewProviderError("x", domain.ErrRateLimited, 429, nil)))
}
