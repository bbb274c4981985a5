package mcp

import (
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Chat uploads documents and answers questions.
	Chat driving.ChatService

	// Formats lists the file extensions uploads accept. Optional.
	Formats []string

	// Version is reported to clients during initialisation. Defaults to "dev".
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
