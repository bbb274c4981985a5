// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core agents and services depend on these interfaces, and infrastructure
// adapters implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ParserRegistry: Extracts plain text from uploaded files by extension
//   - Chunker: Splits text into overlapping fixed-size windows
//   - VectorStore: Embeds, stores and searches chunks
//   - EmbeddingService: Generates vector embeddings (the hash embedder works offline)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, queries fail with ErrLLMUnavailable.
//   - PromptStore: Custom prompt templates. Without it, built-in defaults are used.
//   - AIConfigValidator: Connectivity checks for provider settings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
