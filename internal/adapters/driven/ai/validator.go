package ai

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings picked in the settings wizard.
// A provider must serve the role it was picked for and have its API key
// before the service is built and pinged.
type ConfigValidator struct {
	pingEmbedding func(*domain.EmbeddingSettings) error
	pingLLM       func(*domain.LLMSettings) error
}

// NewConfigValidator creates a validator that pings the real services.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		pingEmbedding: ValidateEmbeddingConfig,
		pingLLM:       ValidateLLMConfig,
	}
}

// ValidateEmbedding rejects LLM-only providers and missing keys, then pings
// the embedder. Unknown or empty providers have nothing to validate.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.Provider.IsValid() {
		return nil
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), config.Provider) {
		return fmt.Errorf("%w: %s does not provide embeddings", domain.ErrInvalidInput, config.Provider)
	}
	if err := checkAPIKey(config.Provider, config.APIKey); err != nil {
		return err
	}
	if err := v.pingEmbedding(config); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// ValidateLLM rejects embedding-only providers and missing keys, then pings
// the model. Unknown or empty providers have nothing to validate.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.Provider.IsValid() {
		return nil
	}
	if !slices.Contains(domain.AllLLMProviders(), config.Provider) {
		return fmt.Errorf("%w: %s cannot generate answers", domain.ErrInvalidInput, config.Provider)
	}
	if err := checkAPIKey(config.Provider, config.APIKey); err != nil {
		return err
	}
	if err := v.pingLLM(config); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func checkAPIKey(provider domain.AIProvider, key string) error {
	if provider.RequiresAPIKey() && key == "" {
		return fmt.Errorf("%w: %s needs an API key (set $%s or enter one)",
			domain.ErrInvalidInput, provider, provider.APIKeyEnv())
	}
	return nil
}
