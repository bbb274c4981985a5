package agents

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure RetrievalAgent implements the interface.
var _ Agent = (*RetrievalAgent)(nil)

// RetrievalAgent owns the vector store. It indexes ingested chunks and
// answers queries with their nearest chunks.
type RetrievalAgent struct {
	store driven.VectorStore
	topK  int
}

// NewRetrievalAgent creates a retrieval agent returning topK chunks per query.
// topK <= 0 selects domain.DefaultTopK.
func NewRetrievalAgent(store driven.VectorStore, topK int) *RetrievalAgent {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrievalAgent{
		store: store,
		topK:  topK,
	}
}

// Name returns the agent identity.
func (a *RetrievalAgent) Name() string {
	return domain.AgentRetrieval
}

// Process indexes DocumentsIngested payloads and searches for QueryRequest payloads.
func (a *RetrievalAgent) Process(ctx context.Context, msg domain.Message) domain.Message {
	switch p := msg.Payload.(type) {
	case domain.DocumentsIngested:
		return a.index(ctx, msg, p)
	case domain.QueryRequest:
		return a.search(ctx, msg, p)
	default:
		rejectMessage(a.Name(), msg)
		return domain.Message{}
	}
}

func (a *RetrievalAgent) index(ctx context.Context, msg domain.Message, p domain.DocumentsIngested) domain.Message {
	log := logger.WithTrace(msg.TraceID)

	if err := a.store.AddDocuments(ctx, p.Chunks); err != nil {
		log.Warn("indexing failed: %v", err)
		return fail(a.Name(), msg, err)
	}

	total := a.store.Len()
	log.Debug("indexed %d chunk(s), %d total", len(p.Chunks), total)

	return msg.Reply(a.Name(), domain.AgentCoordinator, domain.IndexReady{
		Indexed: len(p.Chunks),
		Total:   total,
	})
}

func (a *RetrievalAgent) search(ctx context.Context, msg domain.Message, p domain.QueryRequest) domain.Message {
	log := logger.WithTrace(msg.TraceID)

	results, err := a.store.Search(ctx, p.Query, a.topK)
	if err != nil {
		log.Warn("search failed: %v", err)
		return fail(a.Name(), msg, err)
	}

	chunks := make([]domain.Chunk, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
		scores[i] = r.Distance
	}
	log.Debug("retrieved %d chunk(s) for %q", len(chunks), p.Query)

	return msg.Reply(a.Name(), domain.AgentResponse, domain.RetrievalResult{
		Query:  p.Query,
		Chunks: chunks,
		Scores: scores,
	})
}
