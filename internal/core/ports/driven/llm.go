// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService produces text completions for grounded question answering.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Anthropic (Claude models)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of new tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// Sample enables sampling. When false, decoding is greedy and
	// Temperature is ignored.
	Sample bool

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// EffectiveTemperature returns the temperature to send to a provider.
func (o GenerateOptions) EffectiveTemperature() float64 {
	if !o.Sample {
		return 0
	}
	return o.Temperature
}
