package domain

import "slices"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API. It is LLM-only.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHash is the built-in feature-hashing embedder.
	// It needs no service and is embedding-only.
	AIProviderHash AIProvider = "hash"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHash:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// Environment variables consulted for API keys that are not stored.
//
//nolint:gosec // env var names
const (
	OpenAIKeyEnv    = "OPENAI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
)

// APIKeyEnv returns the environment variable that supplies this provider's
// API key, or "" if it has none.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return OpenAIKeyEnv
	case AIProviderAnthropic:
		return AnthropicKeyEnv
	default:
		return ""
	}
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHash
}

// NeedsBaseURL returns true if this provider talks to a local HTTP endpoint.
func (p AIProvider) NeedsBaseURL() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHash:
		return "Hash (built-in, offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size for the hash embedder.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !slices.Contains(AllEmbeddingProviders(), e.Provider) {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI and Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !slices.Contains(AllLLMProviders(), l.Provider) {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds the fixed-window chunker configuration.
type ChunkingSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int
}

// Stride returns the step between window starts.
func (c ChunkingSettings) Stride() int {
	return c.Size - c.Overlap
}

// IsValid returns true if the window advances on every step.
func (c ChunkingSettings) IsValid() bool {
	return c.Size > 0 && c.Overlap >= 0 && c.Overlap < c.Size
}

// RetrievalSettings holds nearest-neighbour search configuration.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int
}

// GenerationSettings holds text generation options.
type GenerationSettings struct {
	MaxTokens   int
	Temperature float64
	Sample      bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds chunker window settings.
	Chunking ChunkingSettings

	// Retrieval holds search settings.
	Retrieval RetrievalSettings

	// Generation holds LLM sampling settings.
	Generation GenerationSettings
}

// Default pipeline parameters.
const (
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultMaxTokens       = 200
	DefaultTemperature     = 0.7
	DefaultHashDimensions  = 384
	DefaultOllamaBaseURL   = "http://localhost:11434"
	DefaultEmbeddingModel  = "nomic-embed-text"
	DefaultGenerationModel = "llama3.2"
)

// DefaultAppSettings returns settings with sensible defaults.
// The hash embedder works offline, so uploads and retrieval work before any
// provider is configured. Generation needs an explicitly configured LLM.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHash,
			Dimensions: DefaultHashDimensions,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultGenerationModel,
			BaseURL:  DefaultOllamaBaseURL,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Generation: GenerationSettings{
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Sample:      true,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHash,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHash:   "fnv-hash",
		AIProviderOllama: DefaultEmbeddingModel,
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    DefaultGenerationModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
