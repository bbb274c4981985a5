package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateEmbedding_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(nil)

	// nil config returns nil (graceful handling - nothing to validate)
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_UnconfiguredProvider(t *testing.T) {
	validator := NewConfigValidator()
	config := &domain.EmbeddingSettings{
		Provider: "",
		Model:    "test-model",
	}

	err := validator.ValidateEmbedding(config)

	// Unconfigured provider returns nil (nothing to validate)
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateLLM_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateLLM(nil)

	// nil config returns nil (graceful handling - nothing to validate)
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateLLM_UnconfiguredProvider(t *testing.T) {
	validator := NewConfigValidator()
	config := &domain.LLMSettings{
		Provider: "",
		Model:    "test-model",
	}

	err := validator.ValidateLLM(config)

	// Unconfigured provider returns nil (nothing to validate)
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Hash(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderHash})

	assert.NoError(t, err)
}

func TestConfigValidator_RejectsProviderInWrongRole(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "sk-ant"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "does not provide embeddings")

	err = validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderHash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigValidator_MissingAPIKey(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderAnthropic})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "$ANTHROPIC_API_KEY")

	err = validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "$OPENAI_API_KEY")
}

func TestConfigValidator_WrapsPingFailures(t *testing.T) {
	pingErr := errors.New("connection refused")
	validator := &ConfigValidator{
		pingEmbedding: func(*domain.EmbeddingSettings) error { return pingErr },
		pingLLM:       func(*domain.LLMSettings) error { return pingErr },
	}

	err := validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, pingErr)

	err = validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.ErrorIs(t, err, pingErr)
}

func TestConfigValidator_PingsOllama(t *testing.T) {
	srv := newOllamaServer(t)
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}))
	assert.ErrorIs(t,
		validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: unreachableURL(t)}),
		domain.ErrLLMUnavailable)
}
