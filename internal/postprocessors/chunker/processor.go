// Package chunker provides a fixed-size, overlapping text chunker.
package chunker

import (
	"iter"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits text into fixed-size windows that overlap by a fixed
// number of characters. Lengths count runes, not bytes.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSettings applies chunking settings loaded from configuration.
func WithSettings(s domain.ChunkingSettings) Option {
	return func(p *Processor) {
		WithChunkSize(s.Size)(p)
		WithOverlap(s.Overlap)(p)
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Size returns the window length in characters.
func (p *Processor) Size() int {
	return p.chunkSize
}

// Overlap returns the number of characters shared by consecutive windows.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunks yields the windows of text in order.
//
// Text no longer than the window, including empty text, yields exactly one
// chunk. Otherwise windows start every (size - overlap) characters and the
// last window is the one that reaches the end of the text.
func (p *Processor) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		runes := []rune(text)
		n := len(runes)

		if n <= p.chunkSize {
			yield(text)
			return
		}

		stride := p.chunkSize - p.overlap
		for start := 0; ; start += stride {
			end := min(start+p.chunkSize, n)
			if !yield(string(runes[start:end])) {
				return
			}
			if end == n {
				return
			}
		}
	}
}

// Split chunks text and tags every chunk with its source and position.
func (p *Processor) Split(source, text string) []domain.Chunk {
	var chunks []domain.Chunk
	position := 0
	for content := range p.Chunks(text) {
		chunks = append(chunks, domain.Chunk{
			Content:  content,
			Source:   source,
			Position: position,
		})
		position++
	}
	return chunks
}
