package driven

import (
	"iter"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Chunker splits document text into overlapping windows.
type Chunker interface {
	// Chunks yields the windows of text lazily, in order.
	Chunks(text string) iter.Seq[string]

	// Split chunks text and tags every chunk with its source and position.
	Split(source, text string) []domain.Chunk
}
