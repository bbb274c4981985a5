package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Parser extracts plain text from one family of file formats.
type Parser interface {
	// Extensions returns the lower-cased extensions this parser handles, with the dot.
	Extensions() []string

	// Parse returns the full text of the document.
	Parse(ctx context.Context, raw *domain.RawDocument) (string, error)
}

// ParserRegistry reads files from disk and dispatches them to a Parser by extension.
type ParserRegistry interface {
	// Parse reads the file at path and returns its text.
	// Unknown extensions fail with domain.ErrUnsupportedFormat.
	Parse(ctx context.Context, path string) (string, error)

	// Register adds a parser for each of its extensions.
	Register(parser Parser)

	// SupportedExtensions returns every registered extension, sorted.
	SupportedExtensions() []string

	// Supports reports whether a path has a registered extension.
	Supports(path string) bool
}
