package domain

import (
	"context"

	"github.com/google/uuid"
)

// MessageType tags the variant carried by a Message.
type MessageType string

// Message types exchanged between agents.
const (
	MessageTypeDocumentUpload    MessageType = "DOCUMENT_UPLOAD"
	MessageTypeDocumentsIngested MessageType = "DOCUMENTS_INGESTED"
	MessageTypeQueryRequest      MessageType = "QUERY_REQUEST"
	MessageTypeRetrievalResult   MessageType = "RETRIEVAL_RESULT"
	MessageTypeIndexReady        MessageType = "INDEX_READY"
	MessageTypeResponseReady     MessageType = "RESPONSE_READY"
	MessageTypeError             MessageType = "ERROR"
)

// String returns the string representation.
func (t MessageType) String() string {
	return string(t)
}

// Agent names used as message senders and receivers.
const (
	AgentCoordinator = "Coordinator"
	AgentIngestion   = "IngestionAgent"
	AgentRetrieval   = "RetrievalAgent"
	AgentResponse    = "LLMResponseAgent"
	AgentUI          = "UI"
)

// Payload is the body of a Message. The set of variants is closed: only the
// types in this file implement it, so agents can switch over them exhaustively.
type Payload interface {
	// Type returns the message type tag for this variant.
	Type() MessageType

	// Fields renders the payload as a generic mapping for logs and transports.
	Fields() map[string]any

	payload()
}

// UploadRequest asks the ingestion agent to parse and chunk files.
type UploadRequest struct {
	FilePaths []string
}

// DocumentsIngested carries every chunk produced by one upload, in order.
type DocumentsIngested struct {
	Chunks []Chunk
}

// QueryRequest asks the retrieval agent to search for a query.
type QueryRequest struct {
	Query string
}

// RetrievalResult carries the matched chunks and their parallel distance scores.
type RetrievalResult struct {
	Query  string
	Chunks []Chunk
	Scores []float64
}

// IndexReady acknowledges that ingested chunks were added to the store.
type IndexReady struct {
	// Indexed is the number of chunks added by this request.
	Indexed int

	// Total is the number of documents in the store afterwards.
	Total int
}

// ResponseReady carries the generated answer and its sources.
type ResponseReady struct {
	Query   string
	Answer  string
	Sources []Chunk
}

// Failure carries the error that ended a pipeline step.
type Failure struct {
	Err error
}

func (UploadRequest) Type() MessageType     { return MessageTypeDocumentUpload }
func (DocumentsIngested) Type() MessageType { return MessageTypeDocumentsIngested }
func (QueryRequest) Type() MessageType      { return MessageTypeQueryRequest }
func (RetrievalResult) Type() MessageType   { return MessageTypeRetrievalResult }
func (IndexReady) Type() MessageType        { return MessageTypeIndexReady }
func (ResponseReady) Type() MessageType     { return MessageTypeResponseReady }
func (Failure) Type() MessageType           { return MessageTypeError }

func (UploadRequest) payload()     {}
func (DocumentsIngested) payload() {}
func (QueryRequest) payload()      {}
func (RetrievalResult) payload()   {}
func (IndexReady) payload()        {}
func (ResponseReady) payload()     {}
func (Failure) payload()           {}

// Fields renders the payload as a generic mapping.
func (p UploadRequest) Fields() map[string]any {
	return map[string]any{"file_paths": p.FilePaths}
}

// Fields renders the payload as a generic mapping.
func (p DocumentsIngested) Fields() map[string]any {
	return map[string]any{"documents": p.Chunks}
}

// Fields renders the payload as a generic mapping.
func (p QueryRequest) Fields() map[string]any {
	return map[string]any{"query": p.Query}
}

// Fields renders the payload as a generic mapping.
func (p RetrievalResult) Fields() map[string]any {
	return map[string]any{"query": p.Query, "context": p.Chunks, "scores": p.Scores}
}

// Fields renders the payload as a generic mapping.
func (p IndexReady) Fields() map[string]any {
	return map[string]any{"status": UploadStatusSuccess, "indexed": p.Indexed, "total": p.Total}
}

// Fields renders the payload as a generic mapping.
func (p ResponseReady) Fields() map[string]any {
	return map[string]any{"query": p.Query, "answer": p.Answer, "sources": p.Sources}
}

// Fields renders the payload as a generic mapping.
func (p Failure) Fields() map[string]any {
	msg := ""
	if p.Err != nil {
		msg = p.Err.Error()
	}
	return map[string]any{"error": msg}
}

// Message is a typed, traceable unit of communication between agents.
// Messages are values; every hop builds a new one with Reply.
type Message struct {
	Sender   string
	Receiver string
	TraceID  string
	Payload  Payload
}

// NewMessage builds a message. An empty traceID is replaced by a fresh UUID.
func NewMessage(sender, receiver string, payload Payload, traceID string) Message {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return Message{
		Sender:   sender,
		Receiver: receiver,
		TraceID:  traceID,
		Payload:  payload,
	}
}

// Reply builds a derived message that keeps this message's trace identifier.
func (m Message) Reply(sender, receiver string, payload Payload) Message {
	return NewMessage(sender, receiver, payload, m.TraceID)
}

// Type returns the type tag of the carried payload.
func (m Message) Type() MessageType {
	if m.Payload == nil {
		return ""
	}
	return m.Payload.Type()
}

type traceKey struct{}

// ContextWithTraceID pins the trace identifier used for messages that
// originate from requests carrying ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFromContext returns the pinned trace identifier, or "".
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string) //nolint:errcheck // type assertion
	return id
}
