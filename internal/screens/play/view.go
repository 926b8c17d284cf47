package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/quizgen"
	"github.com/abhisek/notequiz/internal/quizsession"
	"github.com/abhisek/notequiz/internal/ui/components"
	"github.com/abhisek/notequiz/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	var body string

	switch st := s.machine.State().(type) {
	case quizsession.Confirming:
		body = s.renderConfirm()
	case quizsession.Generating:
		body = s.spinner.View() + " " + theme.Body.Render("Generating a quiz from your note...")
	case quizsession.Answering:
		q := st.Question()
		body = renderProgress(st.Index, st.Total(), st.Score, width) + "\n\n" +
			components.NewMultiChoice(q.Text, q.Options, q.CorrectIndex).View()
	case quizsession.Revealing:
		body = s.renderReveal(st, width)
	case quizsession.Complete:
		body = s.renderComplete(st)
	case quizsession.Failed:
		body = theme.ErrorText.Bold(true).Render("Quiz generation failed") + "\n\n" +
			theme.Body.Render(failureMessage(st.Err)) + "\n\n" +
			s.failMenu.View()
	}

	card := theme.Card.Width(min(width-4, 76)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *Screen) renderConfirm() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Generate a quiz?"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Create a %d-question multiple-choice quiz from %q.", quizgen.QuestionCount, s.note.Title)))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Y to start or N to go back."))
	return b.String()
}

func renderProgress(index, total, score, width int) string {
	label := fmt.Sprintf("Question %d/%d   Score %d", index+1, total, score)
	bar := components.NewProgressBar("", float64(index)/float64(total), false, min(width-12, 60))
	return theme.Dim.Render(label) + "\n" + bar.View()
}

func (s *Screen) renderReveal(st quizsession.Revealing, width int) string {
	q := st.Question()
	mc := components.NewMultiChoice(q.Text, q.Options, q.CorrectIndex).Reveal(st.Selected)

	verdict := theme.Correct.Render("Correct!")
	if !st.Correct() {
		verdict = theme.Incorrect.Render(fmt.Sprintf("Incorrect. The answer was %s.", components.OptionLabels[q.CorrectIndex]))
	}
	return renderProgress(st.Index, st.Total(), st.Score, width) + "\n\n" + mc.View() + "\n" + verdict
}

func (s *Screen) renderComplete(st quizsession.Complete) string {
	summary := history.Summary{CorrectCount: st.Score, Total: st.Total()}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("Score: %d/%d (%s)", st.Score, st.Total(), summary.Display())))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(st.Feedback()))
	b.WriteString("\n\n")

	switch {
	case s.attemptErr != "":
		b.WriteString(theme.ErrorText.Render("Could not save this attempt: " + s.attemptErr))
	case s.attemptSaved:
		b.WriteString(theme.Dim.Render("Attempt saved to history."))
	case st.Total() > 0:
		b.WriteString(theme.Dim.Render("Saving attempt..."))
	}
	b.WriteString("\n\n")
	b.WriteString(s.doneMenu.View())
	return b.String()
}
