// Package noteform is the screen for writing a new note.
package noteform

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/router"
	"github.com/abhisek/notequiz/internal/screen"
	"github.com/abhisek/notequiz/internal/ui/components"
	"github.com/abhisek/notequiz/internal/ui/layout"
	"github.com/abhisek/notequiz/internal/ui/theme"
)

const (
	titleLimit   = 200
	contentLimit = 20000
)

// API saves notes.
type API interface {
	CreateNote(ctx context.Context, title, content string) (quiz.Note, error)
}

type noteSavedMsg struct {
	Note quiz.Note
	Err  error
}

type field int

const (
	fieldTitle field = iota
	fieldContent
)

// Screen collects a title and body and saves them as a note.
type Screen struct {
	api     API
	title   components.TextInput
	content textarea.Model
	focus   field
	saving  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates an empty form.
func New(api API) *Screen {
	content := textarea.New()
	content.Placeholder = "Paste or type the material to be quizzed on..."
	content.CharLimit = contentLimit
	content.ShowLineNumbers = false

	return &Screen{
		api:     api,
		title:   components.NewTextInput("Title", "e.g. Photosynthesis", titleLimit),
		content: content,
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.title.Focus()
}

func (s *Screen) Title() string {
	return "New Note"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteSavedMsg:
		s.saving = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return s, s.toggleFocus()
		case "ctrl+s":
			return s, s.submit()
		case "enter":
			if s.focus == fieldTitle {
				return s, s.toggleFocus()
			}
		}
	}

	var cmd tea.Cmd
	if s.focus == fieldTitle {
		s.title, cmd = s.title.Update(msg)
	} else {
		s.content, cmd = s.content.Update(msg)
	}
	return s, cmd
}

func (s *Screen) toggleFocus() tea.Cmd {
	if s.focus == fieldTitle {
		s.focus = fieldContent
		s.title.Blur()
		return s.content.Focus()
	}
	s.focus = fieldTitle
	s.content.Blur()
	return s.title.Focus()
}

func (s *Screen) submit() tea.Cmd {
	title := s.title.Value()
	content := strings.TrimSpace(s.content.Value())

	switch {
	case title == "":
		s.errMsg = "A note needs a title."
		return nil
	case content == "":
		s.errMsg = "A note needs some content."
		return nil
	}

	s.errMsg = ""
	s.saving = true
	api := s.api
	return func() tea.Msg {
		note, err := api.CreateNote(context.Background(), title, content)
		return noteSavedMsg{Note: note, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	w := min(width-8, 76)
	s.content.SetWidth(w - 4)
	s.content.SetHeight(max(height-16, 4))

	contentLabel := theme.Dim.Render("Content")
	if s.focus == fieldContent {
		contentLabel = theme.Selected.Render("Content")
	}

	body := theme.Title.Render("Write a note") + "\n\n" +
		s.title.View() + "\n\n" +
		contentLabel + "\n" + s.content.View()

	switch {
	case s.saving:
		body += "\n\n" + theme.Dim.Render("Saving...")
	case s.errMsg != "":
		body += "\n\n" + theme.ErrorText.Render(s.errMsg)
	}

	card := theme.Card.Width(w).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
