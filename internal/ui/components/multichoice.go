package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/notequiz/internal/ui/theme"
)

// OptionLabels are the keys shown next to each option.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders one question. Before a choice is revealed every option
// is plain; afterwards the correct option is green and a wrong pick is red.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Revealed     bool
	ChosenIndex  int
}

// NewMultiChoice creates an unrevealed question view.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Reveal returns a copy showing chosen against the correct option.
func (m MultiChoice) Reveal(chosen int) MultiChoice {
	m.Revealed = true
	m.ChosenIndex = chosen
	return m
}

// IsCorrect returns true if the revealed choice is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed && m.ChosenIndex == m.CorrectIndex
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := "?"
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		line := fmt.Sprintf("  %s)  %s", label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if m.Revealed {
			switch {
			case i == m.CorrectIndex:
				style = theme.Correct
				line += "  ✓"
			case i == m.ChosenIndex:
				style = theme.Incorrect
				line += "  ✗"
			default:
				style = lipgloss.NewStyle().Foreground(theme.TextDim)
			}
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// OptionIndex maps a key ("a"-"d", "1"-"4", either case) to an option index.
func OptionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	}
	return 0, false
}
