package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return s
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestNewLLMService_Defaults(t *testing.T) {
	s, err := NewLLMService(LLMConfig{APIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, s.ModelName())
	assert.NoError(t, s.Close())
}

func TestGenerate(t *testing.T) {
	var got map[string]any
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[
			{"index":0,"message":{"role":"assistant","content":"Paris"},"finish_reason":"stop"}
		]}`))
	})

	out, err := s.Generate(context.Background(), "Capital of France?", driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0.7,
		Sample:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris", out)

	assert.Equal(t, DefaultLLMModel, got["model"])
	assert.InDelta(t, 200, got["max_tokens"], 1e-9)
	assert.InDelta(t, 0.7, got["temperature"], 1e-6)
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestGenerate_NoChoices(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.Error(t, err)
}

func TestGenerate_RateLimited(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit_exceeded"}}`))
	})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.False(t, s.limiter.Allow())
}

func TestTemperature(t *testing.T) {
	assert.InDelta(t, 0.7, temperature(driven.GenerateOptions{Temperature: 0.7, Sample: true}), 1e-6)
	assert.Greater(t, temperature(driven.GenerateOptions{Temperature: 0.7, Sample: false}), float32(0))
	assert.Less(t, temperature(driven.GenerateOptions{Temperature: 0.7, Sample: false}), float32(1e-6))
}
