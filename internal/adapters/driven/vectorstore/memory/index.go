package memory

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Hit is a nearest-neighbour match: an index row and its distance.
type Hit struct {
	Row      int
	Distance float64
}

// FlatIndex is an exact nearest-neighbour index over fixed-size vectors.
// It is not safe for concurrent use; Store serialises access.
type FlatIndex struct {
	dimension int
	vectors   []float32
	rows      int
}

// NewFlatIndex creates an empty index for vectors of the given size.
func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{dimension: dimension}
}

// Dimension returns the vector size.
func (idx *FlatIndex) Dimension() int {
	return idx.dimension
}

// Len returns the number of rows.
func (idx *FlatIndex) Len() int {
	return idx.rows
}

// Add appends vectors as new rows. Either every vector is added or none is.
func (idx *FlatIndex) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != idx.dimension {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), idx.dimension)
		}
	}
	for _, v := range vectors {
		idx.vectors = append(idx.vectors, v...)
	}
	idx.rows += len(vectors)
	return nil
}

// Search returns the k rows closest to query by squared Euclidean
// distance, closest first. Equal distances keep row order.
func (idx *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}
	if k <= 0 || idx.rows == 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, idx.rows)
	for row := range idx.rows {
		hits[row] = Hit{Row: row, Distance: squaredL2(query, idx.row(row))}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return hits[:min(k, len(hits))], nil
}

// Vector returns a copy of the stored vector at row.
func (idx *FlatIndex) Vector(row int) []float32 {
	return slices.Clone(idx.row(row))
}

func (idx *FlatIndex) row(row int) []float32 {
	start := row * idx.dimension
	return idx.vectors[start : start+idx.dimension]
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
