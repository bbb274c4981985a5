package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func TestFlatIndex_AddAndSearch(t *testing.T) {
	idx := NewFlatIndex(2)
	require.NoError(t, idx.Add([][]float32{{0, 0}, {3, 4}, {1, 0}}))
	assert.Equal(t, 3, idx.Len())

	hits, err := idx.Search([]float32{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []Hit{{Row: 0, Distance: 0}, {Row: 2, Distance: 1}}, hits)
}

func TestFlatIndex_SquaredDistance(t *testing.T) {
	idx := NewFlatIndex(2)
	require.NoError(t, idx.Add([][]float32{{3, 4}}))

	hits, err := idx.Search([]float32{0, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, hits[0].Distance, 1e-9)
}

func TestFlatIndex_TiesKeepRowOrder(t *testing.T) {
	idx := NewFlatIndex(1)
	require.NoError(t, idx.Add([][]float32{{1}, {-1}, {1}, {5}}))

	hits, err := idx.Search([]float32{0}, 3)
	require.NoError(t, err)
	rows := []int{hits[0].Row, hits[1].Row, hits[2].Row}
	assert.Equal(t, []int{0, 1, 2}, rows)
}

func TestFlatIndex_KLargerThanRows(t *testing.T) {
	idx := NewFlatIndex(1)
	require.NoError(t, idx.Add([][]float32{{1}, {2}}))

	hits, err := idx.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestFlatIndex_DimensionMismatchIsAtomic(t *testing.T) {
	idx := NewFlatIndex(2)
	err := idx.Add([][]float32{{1, 2}, {1, 2, 3}})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Len())

	_, err = idx.Search([]float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestFlatIndex_VectorIsCopy(t *testing.T) {
	idx := NewFlatIndex(2)
	require.NoError(t, idx.Add([][]float32{{1, 2}}))

	v := idx.Vector(0)
	v[0] = 99
	assert.Equal(t, []float32{1, 2}, idx.Vector(0))
}
