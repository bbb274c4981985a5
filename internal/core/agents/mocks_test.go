package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/parsers"
	"github.com/custodia-labs/ragchat/internal/postprocessors/chunker"
)

// mockLLM returns a canned completion and records what it was asked.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	return m.response, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) lastOpts() driven.GenerateOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts[len(m.opts)-1]
}

// mockPrompts serves a fixed answer template.
type mockPrompts struct {
	template string
	err      error
}

func (m *mockPrompts) Load(_ string) (string, error) { return m.template, m.err }
func (m *mockPrompts) Reload()                       {}

// mockStore fails every call with err.
type mockStore struct {
	err error
}

func (m *mockStore) AddDocuments(_ context.Context, _ []domain.Chunk) error { return m.err }
func (m *mockStore) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return nil, m.err
}
func (m *mockStore) Len() int { return 0 }

// recordingAgent wraps an agent and records every message it receives and sends.
type recordingAgent struct {
	Agent
	mu   sync.Mutex
	seen []domain.Message
}

func (r *recordingAgent) Process(ctx context.Context, msg domain.Message) domain.Message {
	r.record(msg)
	reply := r.Agent.Process(ctx, msg)
	r.record(reply)
	return reply
}

func (r *recordingAgent) record(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, msg)
}

func (r *recordingAgent) messages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.seen...)
}

// pipeline is a fully wired coordinator over real components and a mock LLM.
type pipeline struct {
	coordinator *Coordinator
	store       *memory.Store
	llm         *mockLLM
	ingestion   *recordingAgent
	retrieval   *recordingAgent
	response    *recordingAgent
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	store := memory.NewStore(hash.NewEmbeddingService(64))
	llm := &mockLLM{response: "42"}

	p := &pipeline{
		store:     store,
		llm:       llm,
		ingestion: &recordingAgent{Agent: NewIngestionAgent(parsers.NewDefaultRegistry(), chunker.New())},
		retrieval: &recordingAgent{Agent: NewRetrievalAgent(store, domain.DefaultTopK)},
		response: &recordingAgent{Agent: NewResponseAgent(llm, nil, domain.GenerationSettings{
			MaxTokens:   domain.DefaultMaxTokens,
			Temperature: domain.DefaultTemperature,
			Sample:      true,
		})},
	}
	p.coordinator = NewCoordinator(p.ingestion, p.retrieval, p.response)
	return p
}

// writeFile creates a file under a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// requireInvalidMessagePanic asserts fn panics with domain.ErrInvalidMessageType.
func requireInvalidMessagePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.True(t, errors.Is(err, domain.ErrInvalidMessageType), "got %v", err)
	}()
	fn()
}
