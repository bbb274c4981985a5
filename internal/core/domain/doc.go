// Package domain defines the core business entities for ragchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Message: A traceable envelope passed between agents
//   - Payload: The closed set of message variants
//   - Chunk: A bounded slice of document text tagged with its source
//   - SearchResult: A chunk matched by nearest-neighbour search
//   - Answer: The generated reply to a query, with its sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package
package domain
