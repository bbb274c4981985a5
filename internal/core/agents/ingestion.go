package agents

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure IngestionAgent implements the interface.
var _ Agent = (*IngestionAgent)(nil)

// IngestionAgent turns uploaded files into chunks.
type IngestionAgent struct {
	parsers driven.ParserRegistry
	chunker driven.Chunker
}

// NewIngestionAgent creates an ingestion agent.
func NewIngestionAgent(parsers driven.ParserRegistry, chunker driven.Chunker) *IngestionAgent {
	return &IngestionAgent{
		parsers: parsers,
		chunker: chunker,
	}
}

// Name returns the agent identity.
func (a *IngestionAgent) Name() string {
	return domain.AgentIngestion
}

// Process parses every file in the request and chunks its text.
// The first parser error ends the request with a Failure reply.
func (a *IngestionAgent) Process(ctx context.Context, msg domain.Message) domain.Message {
	req, ok := msg.Payload.(domain.UploadRequest)
	if !ok {
		rejectMessage(a.Name(), msg)
	}

	log := logger.WithTrace(msg.TraceID)
	log.Debug("ingesting %d file(s)", len(req.FilePaths))

	var chunks []domain.Chunk
	for _, path := range req.FilePaths {
		if err := ctx.Err(); err != nil {
			return fail(a.Name(), msg, err)
		}

		text, err := a.parsers.Parse(ctx, path)
		if err != nil {
			log.Warn("parse failed: %v", err)
			return fail(a.Name(), msg, err)
		}

		fileChunks := a.chunker.Split(path, text)
		log.Debug("%s: %d chunk(s)", path, len(fileChunks))
		chunks = append(chunks, fileChunks...)
	}

	return msg.Reply(a.Name(), domain.AgentRetrieval, domain.DocumentsIngested{Chunks: chunks})
}
