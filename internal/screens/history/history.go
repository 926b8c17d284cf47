package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	quizhistory "github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/router"
	"github.com/abhisek/notequiz/internal/screen"
	"github.com/abhisek/notequiz/internal/ui/components"
	"github.com/abhisek/notequiz/internal/ui/layout"
	"github.com/abhisek/notequiz/internal/ui/theme"
)

// API loads the quiz history of a note.
type API interface {
	History(ctx context.Context, noteID string) ([]quizhistory.Entry, error)
}

type historyLoadedMsg struct {
	Entries []quizhistory.Entry
	Err     error
}

// HistoryScreen lists the quizzes generated from one note with the score of
// each quiz's latest attempt.
type HistoryScreen struct {
	api      API
	note     quiz.Note
	entries  []quizhistory.Entry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
	now      func() time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for note.
func New(api API, note quiz.Note) *HistoryScreen {
	return &HistoryScreen{
		api:      api,
		note:     note,
		expanded: make(map[int]bool),
		now:      time.Now,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	api, noteID := s.api, s.note.ID
	return func() tea.Msg {
		entries, err := api.History(context.Background(), noteID)
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History: " + s.note.Title
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Centered(theme.ErrorText, width, fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return theme.Centered(theme.Dim, width, "\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return theme.Centered(theme.Dim.Italic(true), width, "\n\n  No quizzes yet for this note. Generate one from the notes list!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.entries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		taken := "not attempted"
		if e.LatestAttempt != nil {
			taken = "taken " + humanize.RelTime(e.LatestAttempt.CreatedAt, s.now(), "ago", "from now")
		}

		line := fmt.Sprintf("%s%s  %d questions  %5s  %s",
			prefix,
			e.Quiz.CreatedAt.Local().Format("Jan 02, 2006 15:04"),
			e.Summary.Total,
			e.Percent,
			taken)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderDetail(e, width)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderDetail shows the score bar and each question with the answer given.
func renderDetail(e quizhistory.Entry, width int) string {
	var b strings.Builder

	pct, _ := e.Summary.Percent()
	bar := components.NewProgressBar(
		fmt.Sprintf("%d/%d", e.Summary.CorrectCount, e.Summary.Total),
		pct/100, true, min(width-16, 50))
	b.WriteString(bar.View())
	b.WriteString("\n")

	for i, q := range e.Quiz.Questions {
		mark := theme.Dim.Render("·")
		if e.LatestAttempt != nil && i < len(e.LatestAttempt.Answers) {
			if e.LatestAttempt.Answers[i] == q.CorrectIndex {
				mark = theme.Correct.Render("✓")
			} else {
				mark = theme.Incorrect.Render("✗")
			}
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", mark, i+1, theme.Body.Render(q.Text)))
	}
	return b.String()
}
