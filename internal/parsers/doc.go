// Package parsers extracts plain text from uploaded files.
//
// Each sub-package handles one family of formats. The Registry reads a file
// from disk and dispatches it to the parser registered for its extension.
package parsers
