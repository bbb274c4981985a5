package domain

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 3

// SearchResult is a single nearest-neighbour hit.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Distance is the squared Euclidean distance to the query.
	// Lower is more similar.
	Distance float64
}

// Answer is the reply to a query: the cleaned generated text plus the
// chunks it was grounded on.
type Answer struct {
	Query   string  `json:"query" yaml:"query"`
	Answer  string  `json:"answer" yaml:"answer"`
	Sources []Chunk `json:"sources" yaml:"sources"`
}

// Upload status values.
const (
	UploadStatusSuccess = "success"
	UploadStatusError   = "error"
)

// UploadReport describes the outcome of an upload request.
type UploadReport struct {
	Status    string `json:"status" yaml:"status"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Files     int    `json:"files,omitempty" yaml:"files,omitempty"`
	Chunks    int    `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Documents int    `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// UploadFailed builds the error report for a failed upload.
func UploadFailed(err error) UploadReport {
	return UploadReport{Status: UploadStatusError, Message: err.Error()}
}

// Stats summarises the current pipeline state.
type Stats struct {
	Ready     bool `json:"ready" yaml:"ready"`
	Documents int  `json:"documents" yaml:"documents"`
}
