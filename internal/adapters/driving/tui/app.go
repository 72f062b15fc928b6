package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// headerLines, inputLines and statusLines are the rows not used by the transcript.
const (
	headerLines = 2
	inputLines  = 3
	statusLines = 1
)

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	transcript *transcript.View
	input      *input.PromptInput
	statusBar  *status.Bar

	// session is the conversation the prompts are sent to.
	session string

	// busy is set while a turn or reload is in flight.
	busy bool

	// turns counts completed exchanges in the current session.
	turns int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingChatService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		transcript: transcript.New(s),
		input:      input.NewPromptInput(s),
		statusBar:  status.NewBar(s, km),
	}

	if st := ports.Documents.Status(); st.Loaded {
		a.session = st.SessionID
		a.statusBar.SetDocument(st.Filename, st.SessionID)
	}
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.input.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.handleAnswer(msg)
		return a, nil

	case messages.DocumentLoaded:
		a.handleDocumentLoaded(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil
	}

	var cmd tea.Cmd
	a.transcript, cmd = a.transcript.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.ScrollUp), keymap.Matches(k, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd

	case keymap.Matches(k, a.keymap.NewSession):
		if a.busy {
			return a, nil
		}
		return a, a.reload()

	case keymap.Matches(k, a.keymap.Send):
		if a.busy {
			return a, nil
		}
		prompt := strings.TrimSpace(a.input.Value())
		if prompt == "" {
			return a, nil
		}
		a.input.Reset()
		a.transcript.Append(transcript.Entry{Role: domain.RoleUser, Text: prompt})
		a.busy = true
		a.statusBar.SetState(status.StateThinking)
		return a, a.ask(prompt)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs one chat turn off the UI loop.
func (a *App) ask(prompt string) tea.Cmd {
	ctx := a.ctx
	chat := a.ports.Chat
	session := a.session
	return func() tea.Msg {
		answer, err := chat.Ask(ctx, domain.AskRequest{SessionID: session, Prompt: prompt})
		return messages.AnswerReceived{Prompt: prompt, Answer: answer, Err: err}
	}
}

// reload re-ingests the document, which replaces the index and mints a new session.
func (a *App) reload() tea.Cmd {
	if a.ports.Loader == nil {
		a.fail(ErrNoLoader)
		return nil
	}
	a.busy = true
	a.statusBar.SetState(status.StateLoading)

	ctx := a.ctx
	loader := a.ports.Loader
	path := a.ports.Path
	return func() tea.Msg {
		result, err := loader.Ingest(ctx, path)
		return messages.DocumentLoaded{Result: result, Err: err}
	}
}

func (a *App) handleAnswer(msg messages.AnswerReceived) {
	a.busy = false
	if msg.Err != nil {
		a.fail(msg.Err)
		return
	}

	a.err = nil
	a.statusBar.Clear()
	if msg.Answer.SessionID != "" {
		a.session = msg.Answer.SessionID
	}
	a.turns++
	a.statusBar.SetTurns(a.turns)
	a.transcript.Append(transcript.Entry{Role: domain.RoleAssistant, Text: msg.Answer.Response})
}

func (a *App) handleDocumentLoaded(msg messages.DocumentLoaded) {
	a.busy = false
	a.transcript.Clear()
	a.turns = 0
	if msg.Err != nil {
		a.session = ""
		a.statusBar.SetDocument("", "")
		a.fail(msg.Err)
		return
	}

	a.err = nil
	a.statusBar.Clear()
	a.session = msg.Result.SessionID
	a.statusBar.SetDocument(msg.Result.Filename, msg.Result.SessionID)
	a.transcript.Append(transcript.Entry{
		Note: true,
		Text: fmt.Sprintf("Loaded %s (%d chunks). New session started.", msg.Result.Filename, msg.Result.Chunks),
	})
}

// fail records err and shows its user message.
func (a *App) fail(err error) {
	a.err = err
	text := domain.UserMessage(err)
	if text == domain.MsgInternal {
		text = err.Error()
	}
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(text)
	a.transcript.Append(transcript.Entry{Text: text})
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("docchat")
	if st := a.ports.Documents.Status(); st.Loaded {
		header += "  " + a.styles.Muted.Render(fmt.Sprintf("%s · %d chunks", st.Filename, st.Chunks))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.transcript.View(),
		a.input.View(),
		a.statusBar.View(),
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// SessionID returns the session prompts are sent to.
func (a *App) SessionID() string {
	return a.session
}

// Transcript returns the conversation entries.
func (a *App) Transcript() []transcript.Entry {
	return a.transcript.Entries()
}

// Input returns the current prompt text.
func (a *App) Input() string {
	return a.input.Value()
}

// Busy reports whether a request is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Turns returns the completed turns in the current session.
func (a *App) Turns() int {
	return a.turns
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.statusBar.SetWidth(width)
	a.transcript.SetSize(width, height-headerLines-inputLines-statusLines)
}
