package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Error codes returned in the error_code field.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeFileTooLarge         = "file_too_large"
	CodeInvalidFileType      = "invalid_file_type"
	CodeNoExtractableText    = "no_extractable_text"
	CodeNoDocumentLoaded     = "no_document_loaded"
	CodeEmptyPrompt          = "empty_prompt"
	CodeStaleSession         = "stale_session"
	CodeNotFound             = "not_found"
	CodeProviderUnconfigured = "provider_unconfigured"
	CodeProviderAuth         = "provider_auth_failed"
	CodeProviderRateLimited  = "provider_rate_limited"
	CodeInputTooLarge        = "input_too_large"
	CodeProviderTimeout      = "provider_timeout"
	CodeProviderUnavailable  = "provider_unavailable"
	CodeProviderError        = "provider_error"
	CodeInternal             = "internal_error"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnconfigured):
		return http.StatusServiceUnavailable, CodeProviderUnconfigured
	case errors.Is(err, domain.ErrNoDocumentLoaded):
		return http.StatusBadRequest, CodeNoDocumentLoaded
	case errors.Is(err, domain.ErrNoExtractableText):
		return http.StatusUnsupportedMediaType, CodeNoExtractableText
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest, CodeEmptyPrompt
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest, CodeInvalidFileType
	case errors.Is(err, domain.ErrStaleSession):
		return http.StatusConflict, CodeStaleSession
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, CodeProviderAuth
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, CodeProviderRateLimited
	case errors.Is(err, domain.ErrInputTooLarge):
		return http.StatusBadRequest, CodeInputTooLarge
	case errors.Is(err, domain.ErrTransient) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeProviderTimeout
	case errors.Is(err, domain.ErrTransient):
		return http.StatusBadGateway, CodeProviderUnavailable
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway, CodeProviderError
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// message returns the user-facing text for a classified error.
func message(code string, err error) string {
	switch code {
	case CodeNotFound:
		return "Session not found."
	case CodeProviderError:
		return "Provider request failed: Unexpected response from the provider."
	}
	return domain.UserMessage(err)
}

// abortWithError writes the error response for err and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, GetRequestID(c), err)
	} else {
		logger.Debug("%s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, GetRequestID(c), err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorCode: code,
		Message:   message(code, err),
		Details:   err.Error(),
	})
}

// abortWithCode writes an error response for a failure found by the handler itself.
func abortWithCode(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorCode: code, Message: msg})
}
