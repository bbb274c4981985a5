package input

import "strings"

// Kind classifies a submitted line.
type Kind int

const (
	// KindEmpty is a blank line.
	KindEmpty Kind = iota
	// KindQuery is a question for the chat service.
	KindQuery
	// KindUpload is "/upload" followed by file paths.
	KindUpload
	// KindHelp is "/help".
	KindHelp
	// KindQuit is "/quit" or "/exit".
	KindQuit
	// KindUnknown is any other line starting with "/".
	KindUnknown
)

// Command is a parsed input line.
type Command struct {
	Kind Kind

	// Text is the trimmed line; for queries it is the question.
	Text string

	// Args holds the whitespace-separated arguments after a slash command.
	Args []string
}

// Parse classifies a submitted line.
func Parse(line string) Command {
	text := strings.TrimSpace(line)
	if text == "" {
		return Command{Kind: KindEmpty}
	}
	if !strings.HasPrefix(text, "/") {
		return Command{Kind: KindQuery, Text: text}
	}

	fields := strings.Fields(text)
	cmd := Command{Text: text, Args: fields[1:]}
	switch strings.ToLower(fields[0]) {
	case "/upload":
		cmd.Kind = KindUpload
	case "/help":
		cmd.Kind = KindHelp
	case "/quit", "/exit":
		cmd.Kind = KindQuit
	default:
		cmd.Kind = KindUnknown
	}
	return cmd
}
