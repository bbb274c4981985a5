package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// ChatService is the entry point for uploading documents and asking questions.
type ChatService interface {
	// Upload parses, chunks and indexes the given files as one batch.
	// Failures wrap domain.ErrProcessingFailed together with the cause.
	Upload(ctx context.Context, paths []string) (domain.UploadReport, error)

	// Query answers a question from the indexed documents.
	// Returns domain.ErrNotReady when nothing has been indexed.
	Query(ctx context.Context, query string) (domain.Answer, error)

	// Ready reports whether at least one upload has been indexed.
	Ready() bool

	// Stats summarises the current pipeline state.
	Stats() domain.Stats
}
