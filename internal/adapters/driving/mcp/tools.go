package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// previewLength bounds the source excerpt returned with each answer.
const previewLength = 200

// UploadInput is the input schema for the upload tool.
type UploadInput struct {
	Paths []string `json:"paths" jsonschema:"absolute paths of files to index (.pdf .docx .pptx .csv .txt .md)"`
}

// UploadOutput is the output schema for the upload tool.
// Failures are reported with status "error" and a message.
type UploadOutput struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Files     int    `json:"files,omitempty"`
	Chunks    int    `json:"chunks,omitempty"`
	Documents int    `json:"documents,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
// Either Error is set, or Query, Answer and Sources are.
type AskOutput struct {
	Query   string         `json:"query,omitempty"`
	Answer  string         `json:"answer,omitempty"`
	Sources []SourceOutput `json:"sources,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// SourceOutput is one chunk an answer was grounded on.
type SourceOutput struct {
	Source   string `json:"source"`
	Position int    `json:"position"`
	Preview  string `json:"preview"`
}

// StatusInput is the (empty) input schema for the status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Ready     bool     `json:"ready"`
	Documents int      `json:"documents"`
	Formats   []string `json:"formats,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload",
		Description: "Parse, chunk and index local files so questions can be answered from them",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents and list the passages used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report whether documents are indexed and how many",
	}, s.handleStatus)
}

// handleUpload handles the upload tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	report, err := s.ports.Chat.Upload(ctx, input.Paths)
	if err != nil {
		report = domain.UploadFailed(err)
	}
	return nil, UploadOutput(report), nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Query(ctx, input.Question)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, AskOutput{}, err
		}
		return nil, AskOutput{Error: err.Error()}, nil
	}

	output := AskOutput{
		Query:   answer.Query,
		Answer:  answer.Answer,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Source:   src.Source,
			Position: src.Position,
			Preview:  src.Preview(previewLength),
		}
	}
	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return nil, s.status(), nil
}

func (s *Server) status() StatusOutput {
	stats := s.ports.Chat.Stats()
	return StatusOutput{
		Ready:     stats.Ready,
		Documents: stats.Documents,
		Formats:   s.ports.Formats,
	}
}
