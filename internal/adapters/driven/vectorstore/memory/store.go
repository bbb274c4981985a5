package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store embeds chunks and keeps them alongside a flat index.
// The index is created on the first successful add, sized to the first
// embedding's dimension.
type Store struct {
	embedder driven.EmbeddingService

	mu        sync.RWMutex
	index     *FlatIndex
	documents []domain.Chunk
}

// NewStore creates an empty vector store that embeds with embedder.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{embedder: embedder}
}

// AddDocuments embeds all chunks in one batch and appends them.
// Embedding happens outside the lock; on any error nothing is appended.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed documents: got %d embeddings for %d chunks", len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.index
	if index == nil {
		if len(vectors[0]) == 0 {
			return fmt.Errorf("%w: empty embedding", domain.ErrDimensionMismatch)
		}
		index = NewFlatIndex(len(vectors[0]))
	}
	if err := index.Add(vectors); err != nil {
		return err
	}

	s.index = index
	s.documents = append(s.documents, chunks...)

	logger.Debug("vector store: added %d documents (total %d, dim %d)",
		len(chunks), len(s.documents), index.Dimension())
	return nil
}

// Search returns up to k documents nearest to query, closest first.
// An empty store returns no results without calling the embedder.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	if s.Len() == 0 {
		return []domain.SearchResult{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.index.Search(vector, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Chunk:    s.documents[h.Row],
			Distance: h.Distance,
		}
	}
	return results, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Dimension returns the index vector size, or 0 before the first add.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Dimension()
}

// Documents returns a snapshot of every stored document with its embedding.
func (s *Store) Documents() []domain.IndexedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.IndexedDocument, len(s.documents))
	for i, c := range s.documents {
		docs[i] = domain.IndexedDocument{Chunk: c, Embedding: s.index.Vector(i)}
	}
	return docs
}
