package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/app"
	"github.com/custodia-labs/docchat/internal/app/apptest"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const skyDoc = "apples grow on trees. the sky is blue today. fish swim in the sea."

type fixture struct {
	app       *app.App
	completer *apptest.Completer
	path      string
	tui       *App
}

// newFixture loads skyDoc and returns a sized TUI over it.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	completer := apptest.NewCompleter()
	a := apptest.NewApp(t, &apptest.Embedder{}, completer)

	path := filepath.Join(t.TempDir(), "sky.txt")
	require.NoError(t, os.WriteFile(path, []byte(skyDoc), 0644))
	_, err := a.Ingest(context.Background(), path)
	require.NoError(t, err)

	ui, err := NewApp(&Ports{Chat: a.Chat, Documents: a.Documents, Loader: a, Path: path})
	require.NoError(t, err)
	ui.SetDimensions(100, 30)
	return &fixture{app: a, completer: completer, path: path, tui: ui}
}

func typeText(t *testing.T, a *App, text string) {
	t.Helper()
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// press sends a key and runs the command it returns, feeding the result back.
func press(t *testing.T, a *App, key tea.KeyType) tea.Msg {
	t.Helper()
	_, cmd := a.Update(tea.KeyMsg{Type: key})
	if cmd == nil {
		return nil
	}
	msg := cmd()
	a.Update(msg)
	return msg
}

func TestNewApp(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		ui, err := NewApp(nil)
		require.Error(t, err)
		assert.Nil(t, ui)
	})

	t.Run("invalid ports returns error", func(t *testing.T) {
		ui, err := NewApp(&Ports{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingChatService)
		assert.Nil(t, ui)
	})

	t.Run("picks up the active session", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, f.app.Documents.Status().SessionID, f.tui.SessionID())
		assert.NotEmpty(t, f.tui.SessionID())
	})

	t.Run("no document leaves session empty", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.Embedder{}, nil)
		ui, err := NewApp(&Ports{Chat: a.Chat, Documents: a.Documents})
		require.NoError(t, err)
		assert.Empty(t, ui.SessionID())
	})
}

func TestApp_View(t *testing.T) {
	t.Run("before sizing", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.Embedder{}, nil)
		ui, err := NewApp(&Ports{Chat: a.Chat, Documents: a.Documents})
		require.NoError(t, err)
		assert.False(t, ui.Ready())
		assert.Equal(t, "Initialising...", ui.View())
	})

	t.Run("window size makes the app ready", func(t *testing.T) {
		f := newFixture(t)
		f.tui.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		assert.True(t, f.tui.Ready())

		view := f.tui.View()
		assert.Contains(t, view, "docchat")
		assert.Contains(t, view, "sky.txt")
		assert.Contains(t, view, "No messages yet")
	})
}

func TestApp_Init(t *testing.T) {
	f := newFixture(t)
	assert.NotNil(t, f.tui.Init())
}

func TestApp_Ask(t *testing.T) {
	t.Run("enter sends the prompt and shows the answer", func(t *testing.T) {
		f := newFixture(t)
		typeText(t, f.tui, "what colour is the sky?")
		assert.Equal(t, "what colour is the sky?", f.tui.Input())

		msg := press(t, f.tui, tea.KeyEnter)
		answer, ok := msg.(messages.AnswerReceived)
		require.True(t, ok)
		require.NoError(t, answer.Err)

		entries := f.tui.Transcript()
		require.Len(t, entries, 2)
		assert.Equal(t, domain.RoleUser, entries[0].Role)
		assert.Equal(t, "what colour is the sky?", entries[0].Text)
		assert.Equal(t, domain.RoleAssistant, entries[1].Role)
		assert.Equal(t, "The answer.", entries[1].Text)

		assert.Empty(t, f.tui.Input())
		assert.False(t, f.tui.Busy())
		assert.Equal(t, 1, f.tui.Turns())
		assert.NoError(t, f.tui.Err())
		assert.Contains(t, f.tui.View(), "The answer.")
	})

	t.Run("turns share one session", func(t *testing.T) {
		f := newFixture(t)
		typeText(t, f.tui, "first")
		press(t, f.tui, tea.KeyEnter)
		typeText(t, f.tui, "second")
		press(t, f.tui, tea.KeyEnter)

		assert.Equal(t, 2, f.tui.Turns())
		history, err := f.app.Chat.History(f.tui.SessionID())
		require.NoError(t, err)
		assert.Len(t, history, 5)
	})

	t.Run("blank prompt is ignored", func(t *testing.T) {
		f := newFixture(t)
		typeText(t, f.tui, "   ")
		msg := press(t, f.tui, tea.KeyEnter)
		assert.Nil(t, msg)
		assert.Empty(t, f.tui.Transcript())
		assert.Empty(t, f.completer.Requests())
	})

	t.Run("busy app ignores enter", func(t *testing.T) {
		f := newFixture(t)
		typeText(t, f.tui, "first")
		_, cmd := f.tui.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.True(t, f.tui.Busy())
		assert.Equal(t, status.StateThinking, f.tui.statusBar.State())

		typeText(t, f.tui, "second")
		_, cmd = f.tui.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("provider failure shows user message", func(t *testing.T) {
		f := newFixture(t)
		f.completer.Err = domain.NewProviderError("openai", domain.ErrRateLimited, 429, nil)
		typeText(t, f.tui, "hello")
		press(t, f.tui, tea.KeyEnter)

		require.Error(t, f.tui.Err())
		entries := f.tui.Transcript()
		require.Len(t, entries, 2)
		assert.Equal(t, domain.MsgRateLimited, entries[1].Text)
		assert.Equal(t, status.StateError, f.tui.statusBar.State())
		assert.Equal(t, 0, f.tui.Turns())
	})

	t.Run("unconfigured completer", func(t *testing.T) {
		a := apptest.NewApp(t, &apptest.Embedder{}, nil)
		ui, err := NewApp(&Ports{Chat: a.Chat, Documents: a.Documents})
		require.NoError(t, err)
		ui.SetDimensions(80, 24)

		typeText(t, ui, "hello")
		press(t, ui, tea.KeyEnter)
		assert.ErrorIs(t, ui.Err(), domain.ErrUnconfigured)
	})
}

func TestApp_NewSession(t *testing.T) {
	t.Run("reload mints a new session and clears the transcript", func(t *testing.T) {
		f := newFixture(t)
		before := f.tui.SessionID()
		typeText(t, f.tui, "hello")
		press(t, f.tui, tea.KeyEnter)

		msg := press(t, f.tui, tea.KeyCtrlR)
		loaded, ok := msg.(messages.DocumentLoaded)
		require.True(t, ok)
		require.NoError(t, loaded.Err)

		assert.NotEqual(t, before, f.tui.SessionID())
		assert.Equal(t, f.app.Documents.Status().SessionID, f.tui.SessionID())
		assert.Equal(t, 0, f.tui.Turns())

		entries := f.tui.Transcript()
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Note)
		assert.Contains(t, entries[0].Text, "sky.txt")
	})

	t.Run("failed reload clears the session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.Remove(f.path))

		press(t, f.tui, tea.KeyCtrlR)
		require.Error(t, f.tui.Err())
		assert.Empty(t, f.tui.SessionID())
		assert.Equal(t, status.StateError, f.tui.statusBar.State())
	})

	t.Run("no loader", func(t *testing.T) {
		f := newFixture(t)
		ui, err := NewApp(&Ports{Chat: f.app.Chat, Documents: f.app.Documents})
		require.NoError(t, err)
		ui.SetDimensions(80, 24)

		msg := press(t, ui, tea.KeyCtrlR)
		assert.Nil(t, msg)
		assert.ErrorIs(t, ui.Err(), ErrNoLoader)
	})
}

func TestApp_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		t.Run(tea.KeyMsg{Type: key}.String(), func(t *testing.T) {
			f := newFixture(t)
			_, cmd := f.tui.Update(tea.KeyMsg{Type: key})
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_ErrorOccurred(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	f.tui.Update(messages.ErrorOccurred{Err: boom})

	assert.ErrorIs(t, f.tui.Err(), boom)
	entries := f.tui.Transcript()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Text)
}

func TestApp_WithContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	assert.Same(t, f.tui, f.tui.WithContext(ctx))
	assert.Equal(t, ctx, f.tui.ctx)
}
