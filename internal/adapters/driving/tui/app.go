package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// PreviewLength is the number of characters of each source shown under an answer.
const PreviewLength = 200

// chrome is the number of rows taken by the title, input and status bar.
const chrome = 6

const helpText = `Commands:
  /upload <files...>  index documents (.pdf .docx .csv .pptx .txt .md)
  /help               show this help
  /quit               exit
Anything else is sent as a question.`

// job is a chat service call waiting for its turn.
// Calls run one at a time so uploads and questions are answered in order.
type job struct {
	state status.State
	run   tea.Cmd
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input    *input.PromptInput
	status   *status.Bar
	viewport viewport.Model
	spinner  spinner.Model

	// transcript holds rendered entries, oldest first.
	transcript []string

	inFlight bool
	queue    []job
	lastErr  error

	initialFiles []string

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Title

	a := &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		input:    input.NewPromptInput(s),
		status:   status.NewBar(s, km),
		viewport: viewport.New(80, 18),
		spinner:  sp,
	}
	a.refreshStatus()
	return a, nil
}

// WithContext sets the context passed to chat service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithInitialFiles uploads the given files when the program starts.
func (a *App) WithInitialFiles(paths []string) *App {
	a.initialFiles = paths
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("ragchat"),
		a.input.Init(),
	}
	if len(a.initialFiles) > 0 {
		paths := a.initialFiles
		cmds = append(cmds, func() tea.Msg {
			return messages.UploadRequested{Paths: paths, Origin: messages.OriginStartup}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.inFlight {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.status.SetSpinner(a.spinner.View())
		return a, cmd

	case messages.UploadRequested:
		return a, a.requestUpload(msg.Paths, msg.Origin)

	case messages.FilesDetected:
		return a, a.requestUpload(msg.Paths, messages.OriginWatch)

	case messages.QueryRequested:
		return a, a.requestQuery(msg.Query)

	case messages.UploadCompleted:
		a.renderUpload(msg)
		return a, a.finish(msg.Err)

	case messages.AnswerReceived:
		a.renderAnswer(msg)
		return a, a.finish(msg.Err)

	case messages.ErrorOccurred:
		a.appendEntry(a.styles.Error.Render("Error: " + msg.Err.Error()))
		a.lastErr = msg.Err
		a.refreshStatus()
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.Send):
		return a, a.submit()
	case keymap.Matches(key, a.keymap.ScrollUp):
		a.viewport.SetYOffset(a.viewport.YOffset - a.viewport.Height/2)
		return a, nil
	case keymap.Matches(key, a.keymap.ScrollDown):
		a.viewport.SetYOffset(a.viewport.YOffset + a.viewport.Height/2)
		return a, nil
	case keymap.Matches(key, a.keymap.Clear):
		a.input.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit interprets the input line as a command or a question.
func (a *App) submit() tea.Cmd {
	cmd := input.Parse(a.input.Value())
	a.input.Reset()

	switch cmd.Kind {
	case input.KindEmpty:
		return nil
	case input.KindQuit:
		return tea.Quit
	case input.KindHelp:
		a.appendEntry(a.styles.Muted.Render(helpText))
		return nil
	case input.KindUpload:
		if len(cmd.Args) == 0 {
			a.appendEntry(a.styles.Warning.Render("Usage: /upload <files...>"))
			return nil
		}
		return a.requestUpload(cmd.Args, messages.OriginCommand)
	case input.KindUnknown:
		a.appendEntry(a.styles.Warning.Render(fmt.Sprintf("Unknown command %q. Type /help.", cmd.Text)))
		return nil
	case input.KindQuery:
		return a.requestQuery(cmd.Text)
	}
	return nil
}

func (a *App) requestUpload(paths []string, origin messages.UploadOrigin) tea.Cmd {
	label := "Uploading"
	if origin == messages.OriginWatch {
		label = "Detected"
	}
	a.appendEntry(a.styles.Muted.Render(fmt.Sprintf("%s %s", label, strings.Join(paths, ", "))))

	ctx, chat := a.ctx, a.ports.Chat
	return a.schedule(job{
		state: status.StateUploading,
		run: func() tea.Msg {
			report, err := chat.Upload(ctx, paths)
			return messages.UploadCompleted{Paths: paths, Origin: origin, Report: report, Err: err}
		},
	})
}

func (a *App) requestQuery(query string) tea.Cmd {
	a.appendEntry(a.styles.Question.Render("You: ") + query)

	ctx, chat := a.ctx, a.ports.Chat
	return a.schedule(job{
		state: status.StateThinking,
		run: func() tea.Msg {
			answer, err := chat.Query(ctx, query)
			return messages.AnswerReceived{Query: query, Answer: answer, Err: err}
		},
	})
}

// schedule runs j now if nothing is in flight, otherwise queues it.
func (a *App) schedule(j job) tea.Cmd {
	if a.inFlight {
		a.queue = append(a.queue, j)
		return nil
	}
	return a.start(j)
}

func (a *App) start(j job) tea.Cmd {
	a.inFlight = true
	a.status.SetState(j.state)
	return tea.Batch(j.run, a.spinner.Tick)
}

// finish records the outcome of the call in flight and starts the next one.
func (a *App) finish(err error) tea.Cmd {
	a.inFlight = false
	a.lastErr = err
	if len(a.queue) > 0 {
		next := a.queue[0]
		a.queue = a.queue[1:]
		return a.start(next)
	}
	a.refreshStatus()
	return nil
}

// refreshStatus derives the bar state from the chat service and the last error.
func (a *App) refreshStatus() {
	stats := a.ports.Chat.Stats()
	a.status.SetDocuments(stats.Documents)
	switch {
	case a.lastErr != nil && !errors.Is(a.lastErr, domain.ErrNotReady):
		a.status.SetState(status.StateError)
		a.status.SetMessage(a.lastErr.Error())
	case stats.Ready:
		a.status.SetState(status.StateReady)
	default:
		a.status.SetState(status.StateNotReady)
	}
}

func (a *App) renderUpload(msg messages.UploadCompleted) {
	if msg.Err != nil {
		a.appendEntry(a.styles.Error.Render("Upload failed: " + msg.Err.Error()))
		return
	}
	a.appendEntry(a.styles.Success.Render(fmt.Sprintf(
		"Indexed %d chunks from %d files (%d documents total)",
		msg.Report.Chunks, msg.Report.Files, msg.Report.Documents,
	)))
}

func (a *App) renderAnswer(msg messages.AnswerReceived) {
	if errors.Is(msg.Err, domain.ErrNotReady) {
		a.appendEntry(a.styles.Warning.Render(msg.Err.Error() + ". Use /upload <files> first."))
		return
	}
	if msg.Err != nil {
		a.appendEntry(a.styles.Error.Render("Error: " + msg.Err.Error()))
		return
	}
	a.appendEntry(RenderAnswer(a.styles, msg.Answer))
}

// RenderAnswer formats an answer followed by a preview of each source.
func RenderAnswer(s *styles.Styles, answer domain.Answer) string {
	var b strings.Builder
	b.WriteString(s.Answer.Render(answer.Answer))
	if len(answer.Sources) == 0 {
		return b.String()
	}
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("Sources:"))
	for i, src := range answer.Sources {
		b.WriteString(fmt.Sprintf("\n%d. %s\n   %s", i+1,
			s.Source.Render(src.Source),
			s.Preview.Render(src.Preview(PreviewLength)),
		))
	}
	return b.String()
}

func (a *App) appendEntry(entry string) {
	a.transcript = append(a.transcript, entry)
	a.syncViewport()
}

func (a *App) syncViewport() {
	wrap := lipgloss.NewStyle().Width(a.viewport.Width)
	a.viewport.SetContent(wrap.Render(strings.Join(a.transcript, "\n\n")))
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("ragchat"),
		a.viewport.View(),
		a.input.View(),
		a.status.View(),
	)
}

// SetDimensions sizes every component for a terminal of the given size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	vh := height - chrome
	if vh < 3 {
		vh = 3
	}
	a.viewport.Width = width
	a.viewport.Height = vh
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.syncViewport()
}

// Transcript returns the rendered transcript entries.
func (a *App) Transcript() []string {
	return a.transcript
}

// Busy reports whether a chat service call is in flight.
func (a *App) Busy() bool {
	return a.inFlight
}

// Pending returns the number of queued calls.
func (a *App) Pending() int {
	return len(a.queue)
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Status returns the status bar state.
func (a *App) Status() status.State {
	return a.status.State()
}
