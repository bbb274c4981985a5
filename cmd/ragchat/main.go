// Command ragchat answers questions about local documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragchat/internal/core/agents"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/core/services"
	"github.com/custodia-labs/ragchat/internal/parsers"
	"github.com/custodia-labs/ragchat/internal/postprocessors/chunker"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load() //nolint:errcheck // optional file

	cli.SetVersion(version)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		os.Exit(1)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	cli.SetSettingsService(settingsService)

	registry := parsers.NewDefaultRegistry()
	cli.SetFileFilter(registry.Supports)
	cli.SetSupportedFormats(registry.SupportedExtensions())

	cli.SetChatFactory(func() (driving.ChatService, error) {
		return newChatService(settingsService, registry)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newChatService wires the agent pipeline from the saved settings.
func newChatService(settings driving.SettingsService, registry *parsers.Registry) (driving.ChatService, error) {
	cfg, err := settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	aiServices := ai.Init(*cfg)
	for _, w := range aiServices.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	store := memory.NewStore(aiServices.EmbeddingService)

	ingestion := agents.NewIngestionAgent(registry, chunker.New(chunker.WithSettings(cfg.Chunking)))
	retrieval := agents.NewRetrievalAgent(store, cfg.Retrieval.TopK)
	response := agents.NewResponseAgent(aiServices.LLMService, prompts, cfg.Generation)

	return agents.NewCoordinator(ingestion, retrieval, response), nil
}
