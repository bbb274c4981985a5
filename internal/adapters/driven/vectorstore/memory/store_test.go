package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// mockEmbedder returns preset vectors keyed by text.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	short   bool
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, ok := m.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out = append(out, v)
	}
	if m.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int           { return 0 }
func (m *mockEmbedder) ModelName() string         { return "mock" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error              { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func chunks(texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		out[i] = domain.Chunk{Content: t, Source: "src.txt", Position: i}
	}
	return out
}

func newTestStore() (*Store, *mockEmbedder) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"cats":   {1, 0},
		"dogs":   {0, 1},
		"birds":  {5, 5},
		"feline": {0.9, 0.1},
		"wide":   {1, 2, 3},
	}}
	return NewStore(emb), emb
}

func TestStore_SearchEmptyDoesNotEmbed(t *testing.T) {
	store, emb := newTestStore()

	results, err := store.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
	assert.Equal(t, 0, emb.callCount())
}

func TestStore_AddEmptyIsNoop(t *testing.T) {
	store, emb := newTestStore()

	require.NoError(t, store.AddDocuments(context.Background(), nil))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Dimension())
	assert.Equal(t, 0, emb.callCount())
}

func TestStore_AddAndSearch(t *testing.T) {
	store, emb := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.AddDocuments(ctx, chunks("cats", "dogs", "birds")))
	assert.Equal(t, 1, emb.callCount(), "chunks are embedded in one batch")
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, 2, store.Dimension())

	results, err := store.Search(ctx, "feline", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cats", results[0].Chunk.Content)
	assert.Equal(t, "dogs", results[1].Chunk.Content)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
	assert.InDelta(t, 0.02, results[0].Distance, 1e-6)
}

func TestStore_SearchDefaultK(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, chunks("cats", "dogs", "birds", "feline")))

	for _, k := range []int{0, -2} {
		results, err := store.Search(ctx, "cats", k)
		require.NoError(t, err)
		assert.Len(t, results, domain.DefaultTopK)
	}
}

func TestStore_SearchFewerThanK(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, chunks("cats", "dogs")))

	results, err := store.Search(ctx, "cats", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_AppendKeepsOrder(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, chunks("cats")))
	require.NoError(t, store.AddDocuments(ctx, chunks("dogs", "birds")))

	docs := store.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "cats", docs[0].Chunk.Content)
	assert.Equal(t, "dogs", docs[1].Chunk.Content)
	assert.Equal(t, []float32{5, 5}, docs[2].Embedding)
}

func TestStore_EmbeddingErrorIsAtomic(t *testing.T) {
	store, emb := newTestStore()
	emb.err = errors.New("model offline")

	err := store.AddDocuments(context.Background(), chunks("cats"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Dimension())
}

func TestStore_CountMismatchIsAtomic(t *testing.T) {
	store, emb := newTestStore()
	emb.short = true

	err := store.AddDocuments(context.Background(), chunks("cats", "dogs"))
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStore_DimensionMismatchIsAtomic(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, chunks("cats")))

	err := store.AddDocuments(ctx, chunks("dogs", "wide"))
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ConcurrentAddAndSearch(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, store.AddDocuments(ctx, chunks("cats")))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddDocuments(ctx, chunks("dogs")))
		}()
		go func() {
			defer wg.Done()
			_, err := store.Search(ctx, "cats", 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 11, store.Len())
	assert.Len(t, store.Documents(), 11)
}
