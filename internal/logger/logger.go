// Package logger provides verbose logging for the ragchat CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr so users can follow each message through the
// agent pipeline.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf holds the write lock so concurrent lines never interleave.
func logf(level, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", "", format, args...)
}

// Error prints an error message. Errors are printed even when verbose
// mode is off.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "[ERROR] "+format+"\n", args...)
}

// Entry logs messages tagged with a trace identifier.
type Entry struct {
	prefix string
}

// WithTrace returns an entry whose messages carry the given trace identifier.
func WithTrace(traceID string) Entry {
	return Entry{prefix: "trace=" + shortID(traceID) + " "}
}

// Debug prints a traced message if verbose mode is enabled.
func (e Entry) Debug(format string, args ...any) {
	logf("DEBUG", e.prefix, format, args...)
}

// Info prints a traced message if verbose mode is enabled.
func (e Entry) Info(format string, args ...any) {
	logf("INFO", e.prefix, format, args...)
}

// Warn prints a traced warning if verbose mode is enabled.
func (e Entry) Warn(format string, args ...any) {
	logf("WARN", e.prefix, format, args...)
}

// shortID keeps log lines readable; eight hex digits identify a trace well
// enough within one process.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
