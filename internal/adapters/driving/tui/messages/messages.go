// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// UploadOrigin records what started an upload.
type UploadOrigin int

const (
	// OriginCommand is an upload typed as /upload in the input field.
	OriginCommand UploadOrigin = iota
	// OriginStartup is an upload of files passed on the command line.
	OriginStartup
	// OriginWatch is an upload of files detected in a watched directory.
	OriginWatch
)

// String returns the string representation of the origin.
func (o UploadOrigin) String() string {
	switch o {
	case OriginCommand:
		return "command"
	case OriginStartup:
		return "startup"
	case OriginWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// UploadRequested is a command to upload files.
type UploadRequested struct {
	Paths  []string
	Origin UploadOrigin
}

// UploadCompleted carries the outcome of an upload back to the model.
type UploadCompleted struct {
	Paths  []string
	Origin UploadOrigin
	Report domain.UploadReport
	Err    error
}

// QueryRequested is a command to answer a question.
type QueryRequested struct {
	Query string
}

// AnswerReceived carries a generated answer back to the model.
type AnswerReceived struct {
	Query  string
	Answer domain.Answer
	Err    error
}

// FilesDetected is sent when the directory watcher finds new files.
type FilesDetected struct {
	Paths []string
}

// ErrorOccurred signals that an error happened outside a request.
type ErrorOccurred struct {
	Err error
}
