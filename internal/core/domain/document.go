package domain

// Chunk is a bounded slice of document text tagged with its source.
// Chunks are produced by ingestion and are immutable afterwards.
type Chunk struct {
	// Content is the text of this chunk.
	Content string `json:"content" yaml:"content"`

	// Source is the originating file path.
	Source string `json:"source" yaml:"source"`

	// Position is the ordinal of the chunk within its source.
	Position int `json:"position" yaml:"position"`
}

// IndexedDocument is a chunk together with its embedding vector.
// Its row in the vector store is the implicit key used for lookup.
type IndexedDocument struct {
	Chunk     Chunk
	Embedding []float32
}

// RawDocument is the input handed to a format parser.
type RawDocument struct {
	// Path is the file path the content was read from.
	Path string

	// Extension is the lower-cased file extension including the dot.
	Extension string

	// Content is the raw file bytes.
	Content []byte
}

// Preview returns the first n characters of the chunk content, followed by
// "..." when the content was cut.
func (c Chunk) Preview(n int) string {
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[:n]) + "..."
}
