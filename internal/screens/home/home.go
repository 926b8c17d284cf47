package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/router"
	"github.com/abhisek/notequiz/internal/screen"
	"github.com/abhisek/notequiz/internal/screens/history"
	"github.com/abhisek/notequiz/internal/screens/noteform"
	"github.com/abhisek/notequiz/internal/screens/play"
	"github.com/abhisek/notequiz/internal/ui/layout"
	"github.com/abhisek/notequiz/internal/ui/theme"
)

// API is everything the home screen and the screens it opens need from the
// server.
type API interface {
	play.API
	history.API
	noteform.API
	ListNotes(ctx context.Context) ([]quiz.Note, error)
}

type notesLoadedMsg struct {
	Notes []quiz.Note
	Err   error
}

const titleBanner = "N · O · T · E · Q · U · I · Z"

// HomeScreen lists the user's notes, newest first, and opens quizzes and
// history for the selected one.
type HomeScreen struct {
	api      API
	notes    []quiz.Note
	selected int
	loaded   bool
	errMsg   string
	now      func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(api API) *HomeScreen {
	return &HomeScreen{api: api, now: time.Now}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the list when a screen above it is popped, picking up new
// notes and fresh scores.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	api := h.api
	return func() tea.Msg {
		notes, err := api.ListNotes(context.Background())
		return notesLoadedMsg{Notes: notes, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Notes"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
	}
	if len(h.notes) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "Quiz me"},
			layout.KeyHint{Key: "H", Description: "History"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "N", Description: "New note"},
		layout.KeyHint{Key: "R", Description: "Reload"},
		layout.KeyHint{Key: "Q", Description: "Quit"},
	)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.notes = msg.Notes
		if h.selected >= len(h.notes) {
			h.selected = max(len(h.notes)-1, 0)
		}
		return h, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if h.selected > 0 {
				h.selected--
			}
		case "down", "j":
			if h.selected < len(h.notes)-1 {
				h.selected++
			}
		case "enter":
			if note, ok := h.current(); ok {
				return h, push(play.New(h.api, note))
			}
		case "h", "H":
			if note, ok := h.current(); ok {
				return h, push(history.New(h.api, note))
			}
		case "n", "N":
			return h, push(noteform.New(h.api))
		case "r", "R":
			return h, h.load()
		case "q", "Q":
			return h, tea.Quit
		}
	}
	return h, nil
}

func (h *HomeScreen) current() (quiz.Note, bool) {
	if h.selected < 0 || h.selected >= len(h.notes) {
		return quiz.Note{}, false
	}
	return h.notes[h.selected], true
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, theme.Centered(theme.Title, cw, titleBanner))

	switch {
	case h.errMsg != "":
		sections = append(sections, theme.Centered(theme.ErrorText, cw, "Error: "+h.errMsg))
	case !h.loaded:
		sections = append(sections, theme.Centered(theme.Dim, cw, "Loading notes..."))
	case len(h.notes) == 0:
		sections = append(sections, theme.Centered(theme.Dim.Italic(true), cw,
			"No notes yet. Press N to write your first one!"))
	default:
		sections = append(sections, h.renderNotes(cw))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderNotes(cw int) string {
	var b strings.Builder
	for i, n := range h.notes {
		age := humanize.RelTime(n.CreatedAt, h.now(), "ago", "from now")
		title := truncate(n.Title, cw-len(age)-6)

		if i == h.selected {
			b.WriteString(theme.Selected.Render("▸ " + title))
		} else {
			b.WriteString(theme.Unselected.Render("  " + title))
		}
		gap := cw - lipgloss.Width(title) - lipgloss.Width(age) - 2
		b.WriteString(strings.Repeat(" ", max(gap, 1)))
		b.WriteString(theme.Dim.Render(age))
		b.WriteString("\n")

		if i == h.selected {
			b.WriteString(theme.Hint.Render("  " + truncate(preview(n.Content), cw-2)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%d %s", len(h.notes), plural(len(h.notes), "note", "notes"))))
	return b.String()
}

// contentWidth returns the inner width for the notes column.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 70 {
		w = 70
	}
	if w < 20 {
		w = 20
	}
	return w
}

// preview flattens content to a single line.
func preview(content string) string {
	return strings.Join(strings.Fields(content), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
