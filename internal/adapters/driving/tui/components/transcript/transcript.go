// Package transcript renders the conversation in a scrollable viewport.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Entry is one line of the transcript. An entry without a role is an error.
type Entry struct {
	Role domain.Role
	Text string

	// Note marks a local notice that is not part of the conversation.
	Note bool
}

// View is a scrollable conversation log.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	entries  []Entry
}

// New creates an empty transcript.
func New(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, viewport: viewport.New(0, 0)}
}

// Update forwards scroll keys and mouse events to the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the visible part of the transcript.
func (v *View) View() string {
	return v.viewport.View()
}

// SetSize resizes the viewport and rewraps the content.
func (v *View) SetSize(width, height int) {
	v.viewport.Width = max(20, width)
	v.viewport.Height = max(3, height)
	v.refresh()
}

// Append adds an entry and scrolls to it.
func (v *View) Append(e Entry) {
	v.entries = append(v.entries, e)
	v.refresh()
}

// Clear removes every entry.
func (v *View) Clear() {
	v.entries = nil
	v.refresh()
}

// Entries returns a copy of the entries.
func (v *View) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Content returns the full rendered transcript.
func (v *View) Content() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("No messages yet. Type a question and press enter.")
	}

	width := v.viewport.Width
	blocks := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		blocks = append(blocks, v.render(e, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) render(e Entry, width int) string {
	body := v.styles.Normal
	if width > 0 {
		body = body.Width(width)
	}

	if e.Note {
		return v.styles.Muted.Render(e.Text)
	}
	switch e.Role {
	case domain.RoleUser:
		return v.styles.User.Render("You") + "\n" + body.Render(e.Text)
	case domain.RoleAssistant:
		return v.styles.Assistant.Render("Assistant") + "\n" + body.Render(e.Text)
	default:
		return v.styles.Error.Render(e.Text)
	}
}

func (v *View) refresh() {
	v.viewport.SetContent(v.Content())
	v.viewport.GotoBottom()
}
