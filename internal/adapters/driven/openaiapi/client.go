// Package openaiapi is a small client for OpenAI-compatible REST endpoints.
// It classifies failures into domain provider errors so the embedding and
// completion adapters report them the same way.
package openaiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ProviderName labels errors and spans.
const ProviderName = "openai"

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds connection settings shared by the OpenAI adapters.
type Config struct {
	// APIKey is sent as a bearer token (required).
	APIKey string

	// BaseURL overrides DefaultBaseURL for compatible servers.
	BaseURL string

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// HTTPClient replaces http.DefaultClient.
	HTTPClient *http.Client
}

// Client sends JSON requests to an OpenAI-compatible API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrUnconfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	c := &Client{
		http:    cfg.HTTPClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		tracer:  otel.Tracer("docchat/openai"),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// apiError is the error envelope returned by OpenAI-compatible servers.
type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Post sends body as JSON to path and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "openai"+strings.ReplaceAll(path, "/", "."))
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	err = c.do(ctx, http.MethodPost, path, payload, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Ping lists models, which validates the key without running inference.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/models", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewProviderError(ProviderName, domain.ErrTransient, 0, err)
		}
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewProviderError(ProviderName, domain.ErrTransient, 0, err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewProviderError(ProviderName, domain.ErrTransient, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return classify(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classify maps a non-200 response to a provider error.
func classify(status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	code := ""
	var envelope apiError
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
		message = envelope.Error.Message
		if s, ok := envelope.Error.Code.(string); ok {
			code = s
		}
	}
	cause := errors.New(message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewProviderError(ProviderName, domain.ErrAuth, status, cause)
	case status == http.StatusTooManyRequests:
		return domain.NewProviderError(ProviderName, domain.ErrRateLimited, status, cause)
	case status == http.StatusRequestEntityTooLarge || isTooLarge(code, message):
		return domain.NewProviderError(ProviderName, domain.ErrInputTooLarge, status, cause)
	case status >= http.StatusInternalServerError || status == http.StatusRequestTimeout:
		return domain.NewProviderError(ProviderName, domain.ErrTransient, status, cause)
	default:
		return fmt.Errorf("openai: request rejected (status %d): %s: %w", status, message, domain.ErrProvider)
	}
}

func isTooLarge(code, message string) bool {
	if code == "context_length_exceeded" {
		return true
	}
	m := strings.ToLower(message)
	return strings.Contains(m, "maximum context length") || strings.Contains(m, "too long")
}
