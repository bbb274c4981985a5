package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/core/services"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// mockChatService implements driving.ChatService for CLI tests.
type mockChatService struct {
	mu        sync.Mutex
	uploads   [][]string
	queries   []string
	documents int

	answer    domain.Answer
	uploadErr error
	queryErr  error
}

func (m *mockChatService) Upload(_ context.Context, paths []string) (domain.UploadReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, paths)
	if m.uploadErr != nil {
		return domain.UploadFailed(m.uploadErr), m.uploadErr
	}
	m.documents += 2 * len(paths)
	return domain.UploadReport{
		Status:    domain.UploadStatusSuccess,
		Files:     len(paths),
		Chunks:    2 * len(paths),
		Documents: m.documents,
	}, nil
}

func (m *mockChatService) Query(_ context.Context, query string) (domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.queryErr != nil {
		return domain.Answer{}, m.queryErr
	}
	answer := m.answer
	answer.Query = query
	return answer, nil
}

func (m *mockChatService) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documents > 0
}

func (m *mockChatService) Stats() domain.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Stats{Ready: m.documents > 0, Documents: m.documents}
}

func (m *mockChatService) uploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// setupTestServices installs a mock chat service and a settings service
// backed by a temporary config file, and restores everything afterwards.
func setupTestServices(t *testing.T) *mockChatService {
	t.Helper()
	t.Setenv(domain.OpenAIKeyEnv, "")
	t.Setenv(domain.AnthropicKeyEnv, "")

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	chat := &mockChatService{answer: domain.Answer{Answer: "42"}}
	SetChatService(chat)
	SetSettingsService(services.NewSettingsService(store, nil))

	t.Cleanup(func() {
		SetChatFactory(nil)
		SetSettingsService(nil)
		askFiles = nil
		askFormat = string(formatText)
		uploadFormat = string(formatText)
		chatWatchDir = ""
		verbose = false
		logger.SetVerbose(false)
	})
	return chat
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ragchat", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"ask", "upload", "chat", "mcp", "settings", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	setupTestServices(t)

	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	_, err := execute(t, "version", "--verbose")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestChat_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetChatFactory(nil)

	_, err := chat()

	assert.EqualError(t, err, "chat service not configured")
}

func TestChat_FactoryCalledOnce(t *testing.T) {
	setupTestServices(t)
	calls := 0
	want := &mockChatService{}
	SetChatFactory(func() (driving.ChatService, error) {
		calls++
		return want, nil
	})

	first, err := chat()
	require.NoError(t, err)
	second, err := chat()
	require.NoError(t, err)

	assert.Same(t, want, first)
	assert.Same(t, want, second)
	assert.Equal(t, 1, calls)
}

func TestChat_FactoryErrorIsRetried(t *testing.T) {
	setupTestServices(t)
	calls := 0
	SetChatFactory(func() (driving.ChatService, error) {
		calls++
		return nil, errors.New("no embedder")
	})

	_, err := chat()
	assert.EqualError(t, err, "no embedder")
	_, err = chat()
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestVersionDoesNotBuildChat(t *testing.T) {
	setupTestServices(t)
	SetChatFactory(func() (driving.ChatService, error) {
		t.Fatal("factory must not be called")
		return nil, nil
	})

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "ragchat version")
}
