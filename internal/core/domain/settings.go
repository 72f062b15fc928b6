package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Generative AI API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// Default configuration values.
const (
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultGeminiEmbedding     = "text-embedding-004"
	DefaultEmbeddingDimensions = 1536
	DefaultGeminiDimensions    = 768
	DefaultEmbeddingBatchSize  = 64
	DefaultEmbeddingTimeout    = 60 * time.Second

	DefaultLLMModel    = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultLLMTimeout  = 120 * time.Second

	DefaultMaxChunkTokens = 300
	DefaultTopK           = 3

	DefaultMaxTurns    = 10
	DefaultSessionTTL  = 24 * time.Hour
	DefaultMaxSessions = 1000

	DefaultServerAddr     = ":8000"
	DefaultMaxUploadBytes = 20 << 20

	DefaultLogFile = "logs/app.log"

	DefaultSampleRatio = 1.0
)

// DefaultSystemPrompt seeds every new conversation.
const DefaultSystemPrompt = "You are a helpful assistant that processes text. " +
	"Analyze the provided text based on the user's request."

// DefaultCORSOrigins are the origins of the bundled web frontend.
func DefaultCORSOrigins() []string {
	return []string{"http://localhost", "http://localhost:5173"}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. Its tokenizer also sizes chunks.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider credential.
	APIKey string

	// Dimensions is the vector size the index accepts.
	Dimensions int

	// BatchSize caps the number of texts per provider request.
	BatchSize int

	// Timeout bounds each provider request.
	Timeout time.Duration

	// RequestsPerSecond paces provider requests. Zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider can be called.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.APIKey != ""
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the default completion model.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider credential.
	APIKey string

	// Timeout bounds each completion request.
	Timeout time.Duration
}

// IsConfigured returns true if the completion provider can be called.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// RetrievalSettings controls chunking and retrieval.
type RetrievalSettings struct {
	// MaxChunkTokens is the largest chunk in embedding-model tokens.
	MaxChunkTokens int

	// TopK is the default number of chunks retrieved per prompt.
	TopK int
}

// ConversationSettings controls session history.
type ConversationSettings struct {
	// MaxTurns is the number of user/assistant pairs retained per session.
	MaxTurns int

	// SessionTTL is the idle time after which a session is evicted.
	SessionTTL time.Duration

	// MaxSessions caps the number of retained sessions.
	MaxSessions int

	// SystemPrompt seeds every new session.
	SystemPrompt string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr           string
	CORSOrigins    []string
	MaxUploadBytes int64
}

// LogSettings configures the log file.
type LogSettings struct {
	// File is the path of the rotating debug log. Empty disables file logging.
	File string
}

// TelemetrySettings configures tracing export.
type TelemetrySettings struct {
	// OTLPEndpoint is the gRPC collector address. Empty disables tracing.
	OTLPEndpoint string

	// SampleRatio is the fraction of traces kept.
	SampleRatio float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding    EmbeddingSettings
	LLM          LLMSettings
	Retrieval    RetrievalSettings
	Conversation ConversationSettings
	Server       ServerSettings
	Log          LogSettings
	Telemetry    TelemetrySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; providers without a key stay unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOpenAI,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDimensions,
			BatchSize:  DefaultEmbeddingBatchSize,
			Timeout:    DefaultEmbeddingTimeout,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModel,
			Timeout:  DefaultLLMTimeout,
		},
		Retrieval: RetrievalSettings{
			MaxChunkTokens: DefaultMaxChunkTokens,
			TopK:           DefaultTopK,
		},
		Conversation: ConversationSettings{
			MaxTurns:     DefaultMaxTurns,
			SessionTTL:   DefaultSessionTTL,
			MaxSessions:  DefaultMaxSessions,
			SystemPrompt: DefaultSystemPrompt,
		},
		Server: ServerSettings{
			Addr:           DefaultServerAddr,
			CORSOrigins:    DefaultCORSOrigins(),
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Log: LogSettings{
			File: DefaultLogFile,
		},
		Telemetry: TelemetrySettings{
			SampleRatio: DefaultSampleRatio,
		},
	}
}
