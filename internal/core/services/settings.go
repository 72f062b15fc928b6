package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyEmbedTimeout    = "embedding.timeout"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTimeout      = "llm.timeout"
	keyMaxChunkTokens  = "retrieval.max_chunk_tokens"
	keyTopK            = "retrieval.top_k"
	keyMaxTurns        = "conversation.max_turns"
	keySessionTTL      = "conversation.session_ttl"
	keyMaxSessions     = "conversation.max_sessions"
	keySystemPrompt    = "conversation.system_prompt"
	keyServerAddr      = "server.addr"
	keyCORSOrigins     = "server.cors_origins"
	keyMaxUploadBytes  = "server.max_upload_bytes"
	keyLogFile         = "log.file"
	keyOTLPEndpoint    = "telemetry.otlp_endpoint"
	keyOTLPSampleRatio = "telemetry.sample_ratio"
)

// Provider credential variables, read when no docchat-specific key is set.
//
//nolint:gosec // G101: Environment variable names, not credentials.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
)

// EnvPrefix prefixes environment overrides, e.g. DOCCHAT_LLM_MODEL.
const EnvPrefix = "DOCCHAT_"

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindDuration
	kindList
	kindProvider
)

var settingKinds = map[string]settingKind{
	keyEmbedProvider:   kindProvider,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyEmbedDims:       kindInt,
	keyEmbedBatchSize:  kindInt,
	keyEmbedTimeout:    kindDuration,
	keyEmbedRPS:        kindFloat,
	keyLLMProvider:     kindProvider,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
	keyLLMTimeout:      kindDuration,
	keyMaxChunkTokens:  kindInt,
	keyTopK:            kindInt,
	keyMaxTurns:        kindInt,
	keySessionTTL:      kindDuration,
	keyMaxSessions:     kindInt,
	keySystemPrompt:    kindString,
	keyServerAddr:      kindString,
	keyCORSOrigins:     kindList,
	keyMaxUploadBytes:  kindInt,
	keyLogFile:         kindString,
	keyOTLPEndpoint:    kindString,
	keyOTLPSampleRatio: kindFloat,
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService resolves application settings from defaults, the config
// file and the environment, in increasing order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. aiValidator may be nil.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)

	embedModel, embedDims := d.Embedding.Model, d.Embedding.Dimensions
	llmModel := d.LLM.Model
	if embedProvider == domain.AIProviderGemini {
		embedModel, embedDims = domain.DefaultGeminiEmbedding, domain.DefaultGeminiDimensions
	}
	if llmProvider == domain.AIProviderGemini {
		llmModel = domain.DefaultGeminiModel
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          embedProvider,
			Model:             s.getString(keyEmbedModel, embedModel),
			BaseURL:           s.getString(keyEmbedBaseURL, ""),
			APIKey:            s.apiKey(keyEmbedAPIKey, embedProvider),
			Dimensions:        s.getInt(keyEmbedDims, embedDims),
			BatchSize:         s.getInt(keyEmbedBatchSize, d.Embedding.BatchSize),
			Timeout:           s.getDuration(keyEmbedTimeout, d.Embedding.Timeout),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, d.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, llmModel),
			BaseURL:  s.getString(keyLLMBaseURL, ""),
			APIKey:   s.apiKey(keyLLMAPIKey, llmProvider),
			Timeout:  s.getDuration(keyLLMTimeout, d.LLM.Timeout),
		},
		Retrieval: domain.RetrievalSettings{
			MaxChunkTokens: s.getInt(keyMaxChunkTokens, d.Retrieval.MaxChunkTokens),
			TopK:           s.getInt(keyTopK, d.Retrieval.TopK),
		},
		Conversation: domain.ConversationSettings{
			MaxTurns:     s.getInt(keyMaxTurns, d.Conversation.MaxTurns),
			SessionTTL:   s.getDuration(keySessionTTL, d.Conversation.SessionTTL),
			MaxSessions:  s.getInt(keyMaxSessions, d.Conversation.MaxSessions),
			SystemPrompt: s.getString(keySystemPrompt, d.Conversation.SystemPrompt),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, d.Server.Addr),
			CORSOrigins:    s.getList(keyCORSOrigins, d.Server.CORSOrigins),
			MaxUploadBytes: int64(s.getInt(keyMaxUploadBytes, int(d.Server.MaxUploadBytes))),
		},
		Log: domain.LogSettings{
			File: s.getString(keyLogFile, d.Log.File),
		},
		Telemetry: domain.TelemetrySettings{
			OTLPEndpoint: s.getString(keyOTLPEndpoint, ""),
			SampleRatio:  s.getFloat(keyOTLPSampleRatio, d.Telemetry.SampleRatio),
		},
	}

	return settings, nil
}

// Set validates value for key and stores it in the config file.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var stored any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		stored = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number: %w", key, domain.ErrInvalidInput)
		}
		stored = f
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a duration such as 30s: %w", key, domain.ErrInvalidInput)
		}
		stored = value
	case kindList:
		stored = splitList(value)
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("invalid provider %q: %w", value, domain.ErrInvalidInput)
		}
		stored = value
	default:
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.
// Each checks the environment override first, then the config file.

func (s *SettingsService) env(key string) string {
	return strings.TrimSpace(s.getenv(EnvName(key)))
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.env(key); v != "" {
		return v
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v := s.env(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		logger.Warn("Ignoring invalid %s=%q", EnvName(key), v)
	}
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v := s.env(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
		logger.Warn("Ignoring invalid %s=%q", EnvName(key), v)
	}
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	for _, v := range []string{s.env(key), s.configStore.GetString(key)} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		logger.Warn("Ignoring invalid duration %q for %s", v, key)
	}
	if secs := s.configStore.GetInt(key); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if v := s.env(key); v != "" {
		return splitList(v)
	}
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.getString(key, "")
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(strings.ToLower(val))
	if !provider.IsValid() {
		logger.Warn("Unknown provider %q for %s, using %s", val, key, defaultVal)
		return defaultVal
	}
	return provider
}

// apiKey resolves a credential: docchat override, then the provider's
// conventional variable, then the config file.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if v := s.env(key); v != "" {
		return v
	}
	var conventional string
	switch provider {
	case domain.AIProviderOpenAI:
		conventional = EnvOpenAIKey
	case domain.AIProviderGemini:
		conventional = EnvGeminiKey
	}
	if conventional != "" {
		if v := strings.TrimSpace(s.getenv(conventional)); v != "" {
			return v
		}
	}
	return s.configStore.GetString(key)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
