// Package cli provides the ragchat command-line interface.
// It implements a driving adapter over the chat and settings services.
package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var (
	// settingsService is always available; it only touches the config file.
	settingsService driving.SettingsService

	// chatService is built on first use so commands such as version and
	// settings never contact a model provider.
	chatService driving.ChatService
	chatFactory func() (driving.ChatService, error)
	chatMu      sync.Mutex
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with your documents",
	Long: `ragchat answers questions about your documents.

Upload PDF, Word, PowerPoint, CSV, text or Markdown files. They are split into
overlapping chunks and indexed for semantic search. Questions are answered by
a language model from the most relevant chunks, and every answer lists the
passages it was grounded on.

The index lives in memory for the lifetime of one command. Use 'ragchat chat'
for an interactive session or 'ragchat ask -f FILE QUESTION' for a one-shot
answer.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline trace logs to stderr")
}

// SetVersion sets the version reported by 'ragchat version'.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by the settings commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetChatFactory sets the function that builds the chat service on first use.
func SetChatFactory(factory func() (driving.ChatService, error)) {
	chatMu.Lock()
	defer chatMu.Unlock()
	chatFactory = factory
	chatService = nil
}

// SetChatService sets a ready-built chat service.
func SetChatService(s driving.ChatService) {
	chatMu.Lock()
	defer chatMu.Unlock()
	chatService = s
}

// chat returns the chat service, building it on first use.
func chat() (driving.ChatService, error) {
	chatMu.Lock()
	defer chatMu.Unlock()

	if chatService != nil {
		return chatService, nil
	}
	if chatFactory == nil {
		return nil, errors.New("chat service not configured")
	}
	svc, err := chatFactory()
	if err != nil {
		return nil, err
	}
	chatService = svc
	return svc, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context that commands use for
// cancellation of uploads and model calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
