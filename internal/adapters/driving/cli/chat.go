package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/watcher"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

var chatWatchDir string

// supportedFile filters watched files; set from the parser registry at startup.
var supportedFile = func(string) bool { return true }

var chatCmd = &cobra.Command{
	Use:   "chat [files...]",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat over your documents.

Files given as arguments are uploaded when the session starts. Inside the
session:
  /upload <files...>  index more documents
  /help               list commands
  /quit               exit (or esc, ctrl+c)
Anything else is asked as a question.

With --watch DIR, files copied into DIR are indexed automatically.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatWatchDir, "watch", "w", "", "index files created in this directory")
	rootCmd.AddCommand(chatCmd)
}

// SetFileFilter sets the predicate used to ignore unsupported files in
// watched directories.
func SetFileFilter(f func(path string) bool) {
	if f != nil {
		supportedFile = f
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps the stack trace visible after the alt screen closes.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	svc, err := chat()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(svc))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx).WithInitialFiles(args)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if chatWatchDir != "" {
		if err := startChatWatcher(ctx, p, chatWatchDir); err != nil {
			return err
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startChatWatcher forwards detected files to the TUI, which queues the
// uploads behind any call already in flight.
func startChatWatcher(ctx context.Context, p *tea.Program, dir string) error {
	w, err := watcher.New(dir, func(_ context.Context, paths []string) {
		p.Send(messages.FilesDetected{Paths: paths})
	}, watcher.WithFilter(supportedFile))
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			p.Send(messages.ErrorOccurred{Err: err})
		}
	}()
	return nil
}

// startUploadWatcher uploads files created in dir straight through svc and
// prints one line per batch.
func startUploadWatcher(ctx context.Context, cmd *cobra.Command, svc driving.ChatService, dir string) error {
	out := cmd.ErrOrStderr()
	w, err := watcher.New(dir, watcher.UploadHandler(svc, func(paths []string, r domain.UploadReport, err error) {
		if err != nil {
			fmt.Fprintf(out, "watch: upload of %d files failed: %v\n", len(paths), err)
			return
		}
		fmt.Fprintf(out, "watch: indexed %d chunks from %d files\n", r.Chunks, r.Files)
	}), watcher.WithFilter(supportedFile))
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			fmt.Fprintf(out, "watch: stopped: %v\n", err)
		}
	}()
	return nil
}
