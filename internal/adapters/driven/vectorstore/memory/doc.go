// Package memory provides an in-process vector store backed by an exact
// (brute-force) squared-L2 index.
//
// The store is append-only and lives for the lifetime of the process.
// Row i of the index always corresponds to document i.
package memory
