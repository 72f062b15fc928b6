package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an upload whose content type has no extractor.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnconfigured indicates a provider has no credential or was never set up.
	// Every operation depending on that provider fails before any call is made.
	ErrUnconfigured = errors.New("provider not configured")

	// ErrNoDocumentLoaded indicates a query arrived before any document was indexed.
	ErrNoDocumentLoaded = errors.New("no document loaded")

	// ErrEmptyInput indicates a blank prompt or a document without text.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoExtractableText indicates the extractor produced no text.
	// It matches ErrEmptyInput.
	ErrNoExtractableText = fmt.Errorf("no extractable text: %w", ErrEmptyInput)

	// ErrStaleSession indicates a session that belongs to a previous document.
	ErrStaleSession = errors.New("session belongs to a previous document")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexEmpty indicates a search against an index with no vectors.
	ErrIndexEmpty = errors.New("vector index is empty")
)

// Provider error kinds. A ProviderError matches ErrProvider and exactly one kind.
var (
	// ErrProvider matches every classified provider failure.
	ErrProvider = errors.New("provider error")

	// ErrAuth indicates the provider rejected the credential.
	ErrAuth = errors.New("authentication failed")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrInputTooLarge indicates the input exceeded the model's context or size limit.
	ErrInputTooLarge = errors.New("input too large")

	// ErrTransient indicates a network fault, timeout or server-side failure.
	ErrTransient = errors.New("transient provider failure")
)

// ProviderError is a classified failure from an external embedding or completion provider.
type ProviderError struct {
	// Provider names the backend, e.g. "openai".
	Provider string

	// Kind is one of ErrAuth, ErrRateLimited, ErrInputTooLarge or ErrTransient.
	Kind error

	// StatusCode is the HTTP status reported by the provider, zero when unknown.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// NewProviderError creates a classified provider error.
func NewProviderError(provider string, kind error, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, StatusCode: status, Err: err}
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ProviderError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ClassifyContextError converts an expired or cancelled context into a transient
// provider error. Other errors are returned unchanged.
func ClassifyContextError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProviderError(provider, ErrTransient, 0, err)
	}
	return err
}

// User-facing messages for each failure class.
const (
	MsgUnconfigured      = "Language model provider is not configured or API key is missing. Please check server configuration."
	MsgNoDocumentLoaded  = "Text content cannot be empty. Please upload a PDF file first"
	MsgEmptyPrompt       = "User prompt cannot be empty."
	MsgNoExtractableText = "No text could be extracted. The PDF might be image-based, password-protected, or corrupted."
	MsgUnsupportedType   = "Invalid file type. Please upload a PDF file."
	MsgStaleSession      = "This session belongs to a previous document. Continue with the current session."
	MsgAuth              = "Provider request failed: Invalid API key or authentication issue."
	MsgRateLimited       = "Provider request failed: Rate limit exceeded. Please try again later."
	MsgInputTooLarge     = "Provider request failed: The provided text is too long for the model. Please shorten it."
	MsgTimeout           = "Provider request failed: The request timed out. Please try again."
	MsgTransient         = "Provider request failed: Temporary provider error. Please try again."
	MsgInternal          = "An unexpected error occurred while processing the document."
)

// UserMessage returns a human-readable reason for err that distinguishes
// configuration problems, caller input problems and provider problems.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnconfigured):
		return MsgUnconfigured
	case errors.Is(err, ErrNoDocumentLoaded):
		return MsgNoDocumentLoaded
	case errors.Is(err, ErrNoExtractableText):
		return MsgNoExtractableText
	case errors.Is(err, ErrEmptyInput):
		return MsgEmptyPrompt
	case errors.Is(err, ErrUnsupportedType):
		return MsgUnsupportedType
	case errors.Is(err, ErrStaleSession):
		return MsgStaleSession
	case errors.Is(err, ErrAuth):
		return MsgAuth
	case errors.Is(err, ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, ErrInputTooLarge):
		return MsgInputTooLarge
	case errors.Is(err, ErrTransient) && errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, ErrTransient):
		return MsgTransient
	default:
		return MsgInternal
	}
}
