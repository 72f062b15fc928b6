// Package geminiapi holds what the Gemini embedding and completion adapters
// share: client construction and error classification.
package geminiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ProviderName labels errors and spans.
const ProviderName = "gemini"

// NewClient creates a genai client for apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required: %w", domain.ErrUnconfigured)
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}

// Classify converts a genai error into a domain provider error.
// HTTP errors are mapped by status code, gRPC errors by status code.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewProviderError(ProviderName, domain.ErrTransient, 0, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classifyHTTP(gerr.Code, gerr.Message, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return classifyGRPC(st.Code(), st.Message(), err)
	}

	return domain.NewProviderError(ProviderName, domain.ErrTransient, 0, err)
}

func classifyHTTP(code int, message string, err error) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.NewProviderError(ProviderName, domain.ErrAuth, code, err)
	case code == http.StatusTooManyRequests:
		return domain.NewProviderError(ProviderName, domain.ErrRateLimited, code, err)
	case code == http.StatusRequestEntityTooLarge || isTooLarge(message):
		return domain.NewProviderError(ProviderName, domain.ErrInputTooLarge, code, err)
	case code == http.StatusBadRequest && isInvalidKey(message):
		return domain.NewProviderError(ProviderName, domain.ErrAuth, code, err)
	case code >= http.StatusInternalServerError:
		return domain.NewProviderError(ProviderName, domain.ErrTransient, code, err)
	default:
		return fmt.Errorf("gemini: request rejected (status %d): %w: %w", code, domain.ErrProvider, err)
	}
}

func classifyGRPC(code codes.Code, message string, err error) error {
	switch code {
	case codes.Unauthenticated, codes.PermissionDenied:
		return domain.NewProviderError(ProviderName, domain.ErrAuth, http.StatusUnauthorized, err)
	case codes.ResourceExhausted:
		return domain.NewProviderError(ProviderName, domain.ErrRateLimited, http.StatusTooManyRequests, err)
	case codes.InvalidArgument:
		if isTooLarge(message) {
			return domain.NewProviderError(ProviderName, domain.ErrInputTooLarge, http.StatusBadRequest, err)
		}
		if isInvalidKey(message) {
			return domain.NewProviderError(ProviderName, domain.ErrAuth, http.StatusBadRequest, err)
		}
		return fmt.Errorf("gemini: invalid request: %w: %w", domain.ErrProvider, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Aborted:
		return domain.NewProviderError(ProviderName, domain.ErrTransient, 0, err)
	default:
		return fmt.Errorf("gemini: %s: %w: %w", code, domain.ErrProvider, err)
	}
}

func isTooLarge(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "exceeds the maximum") || strings.Contains(m, "too long") ||
		strings.Contains(m, "too large")
}

func isInvalidKey(message string) bool {
	return strings.Contains(strings.ToLower(message), "api key not valid")
}
