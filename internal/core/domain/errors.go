package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no parser handles.
	// The whole upload batch is aborted when it occurs.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidMessageType indicates an agent received a message variant it
	// does not handle. This is a wiring bug and agents panic with it.
	ErrInvalidMessageType = errors.New("invalid message type")

	// ErrNotReady indicates a query arrived before any documents were indexed.
	// It is an expected user error and is rendered as a friendly message.
	ErrNotReady = errors.New("Documents not processed yet") //nolint:staticcheck // user-facing text

	// ErrProcessingFailed wraps any failure during upload processing.
	// The underlying cause is always wrapped alongside it.
	ErrProcessingFailed = errors.New("processing failed")

	// ErrDimensionMismatch indicates an embedding does not match the index size.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
