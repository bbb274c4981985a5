package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
	"github.com/custodia-labs/ragchat/internal/parsers/csv"
	"github.com/custodia-labs/ragchat/internal/parsers/docx"
	"github.com/custodia-labs/ragchat/internal/parsers/pdf"
	"github.com/custodia-labs/ragchat/internal/parsers/plaintext"
	"github.com/custodia-labs/ragchat/internal/parsers/pptx"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps file extensions to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]driven.Parser),
	}
}

// NewDefaultRegistry creates a registry with every built-in parser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in parsers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(docx.New())
	r.Register(pptx.New())
	r.Register(csv.New())
	r.Register(pdf.New())
}

// Register adds a parser for each of its extensions.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range parser.Extensions() {
		r.parsers[strings.ToLower(ext)] = parser
	}
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supports reports whether a path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(Extension(path))
	return ok
}

// Parse reads the file at path and returns its text.
func (r *Registry) Parse(ctx context.Context, path string) (string, error) {
	ext := Extension(path)
	parser, ok := r.lookup(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	logger.Debug("parsing %s (%d bytes)", path, len(content))

	text, err := parser.Parse(ctx, &domain.RawDocument{
		Path:      path,
		Extension: ext,
		Content:   content,
	})
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return text, nil
}

func (r *Registry) lookup(ext string) (driven.Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[ext]
	return p, ok
}

// Extension returns the lower-cased extension of path, including the dot.
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
