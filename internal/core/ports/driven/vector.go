package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// VectorStore embeds chunks and answers nearest-neighbour queries over them.
// Storage is append-only and lives for the process lifetime.
type VectorStore interface {
	// AddDocuments embeds and appends chunks. Empty input is a no-op.
	// On error nothing is appended.
	AddDocuments(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k chunks nearest to the query, closest first.
	// k <= 0 selects domain.DefaultTopK.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)

	// Len returns the number of stored documents.
	Len() int
}
