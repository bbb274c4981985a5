package agents

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.ChatService = (*Coordinator)(nil)

// Coordinator drives uploads and queries through the agents. It starts
// not ready and becomes ready after the first successful upload.
type Coordinator struct {
	ingestion Agent
	retrieval Agent
	response  Agent

	ready     atomic.Bool
	documents atomic.Int64
}

// NewCoordinator creates a coordinator over the three pipeline agents.
func NewCoordinator(ingestion, retrieval, response Agent) *Coordinator {
	return &Coordinator{
		ingestion: ingestion,
		retrieval: retrieval,
		response:  response,
	}
}

// Upload ingests and indexes files. Any failure aborts the whole batch and
// is returned as domain.ErrProcessingFailed wrapping the cause.
func (c *Coordinator) Upload(ctx context.Context, paths []string) (domain.UploadReport, error) {
	logger.Section("Upload")

	if len(paths) == 0 {
		return c.uploadFailed(fmt.Errorf("%w: no files given", domain.ErrInvalidInput))
	}

	msg := domain.NewMessage(domain.AgentCoordinator, domain.AgentIngestion,
		domain.UploadRequest{FilePaths: paths}, domain.TraceIDFromContext(ctx))
	log := logger.WithTrace(msg.TraceID)
	log.Debug("%s -> %s: %s", msg.Sender, msg.Receiver, msg.Type())

	ingested := c.ingestion.Process(ctx, msg)
	log.Debug("%s -> %s: %s", ingested.Sender, ingested.Receiver, ingested.Type())
	if f, ok := ingested.Payload.(domain.Failure); ok {
		return c.uploadFailed(f.Err)
	}

	indexed := c.retrieval.Process(ctx, ingested)
	log.Debug("%s -> %s: %s", indexed.Sender, indexed.Receiver, indexed.Type())

	switch p := indexed.Payload.(type) {
	case domain.IndexReady:
		c.documents.Store(int64(p.Total))
		c.ready.Store(true)
		log.Info("indexed %d chunk(s) from %d file(s)", p.Indexed, len(paths))
		return domain.UploadReport{
			Status:    domain.UploadStatusSuccess,
			Files:     len(paths),
			Chunks:    p.Indexed,
			Documents: p.Total,
		}, nil
	case domain.Failure:
		return c.uploadFailed(p.Err)
	default:
		return c.uploadFailed(fmt.Errorf("unexpected %s reply from %s", indexed.Type(), indexed.Sender))
	}
}

func (c *Coordinator) uploadFailed(cause error) (domain.UploadReport, error) {
	err := fmt.Errorf("%w: %w", domain.ErrProcessingFailed, cause)
	logger.Warn("upload: %v", err)
	return domain.UploadFailed(err), err
}

// Query answers a question from the indexed documents. Before the first
// successful upload it returns domain.ErrNotReady without searching.
func (c *Coordinator) Query(ctx context.Context, query string) (domain.Answer, error) {
	logger.Section("Query")

	if !c.ready.Load() {
		return domain.Answer{}, domain.ErrNotReady
	}

	msg := domain.NewMessage(domain.AgentCoordinator, domain.AgentRetrieval,
		domain.QueryRequest{Query: query}, domain.TraceIDFromContext(ctx))
	log := logger.WithTrace(msg.TraceID)
	log.Debug("%s -> %s: %s", msg.Sender, msg.Receiver, msg.Type())

	retrieved := c.retrieval.Process(ctx, msg)
	log.Debug("%s -> %s: %s", retrieved.Sender, retrieved.Receiver, retrieved.Type())
	if f, ok := retrieved.Payload.(domain.Failure); ok {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrProcessingFailed, f.Err)
	}

	answered := c.response.Process(ctx, retrieved)
	log.Debug("%s -> %s: %s", answered.Sender, answered.Receiver, answered.Type())

	switch p := answered.Payload.(type) {
	case domain.ResponseReady:
		return domain.Answer{
			Query:   p.Query,
			Answer:  p.Answer,
			Sources: p.Sources,
		}, nil
	case domain.Failure:
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrProcessingFailed, p.Err)
	default:
		return domain.Answer{}, fmt.Errorf("%w: unexpected %s reply from %s",
			domain.ErrProcessingFailed, answered.Type(), answered.Sender)
	}
}

// Ready reports whether at least one upload has been indexed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// Stats returns the readiness flag and the number of indexed documents.
func (c *Coordinator) Stats() domain.Stats {
	return domain.Stats{
		Ready:     c.ready.Load(),
		Documents: int(c.documents.Load()),
	}
}
