// Package play is the screen that generates a quiz from a note and walks the
// user through it one question at a time.
package play

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/notequiz/internal/auth"
	"github.com/abhisek/notequiz/internal/client"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/quizgen"
	"github.com/abhisek/notequiz/internal/quizsession"
	"github.com/abhisek/notequiz/internal/router"
	"github.com/abhisek/notequiz/internal/screen"
	"github.com/abhisek/notequiz/internal/store"
	"github.com/abhisek/notequiz/internal/ui/components"
	"github.com/abhisek/notequiz/internal/ui/layout"
	"github.com/abhisek/notequiz/internal/ui/theme"
)

// API is the part of the HTTP client the screen uses.
type API interface {
	GenerateQuiz(ctx context.Context, noteID string) (quiz.Record, error)
	SubmitAttempt(ctx context.Context, quizID string, answers []int) (quiz.Attempt, error)
}

// Messages carry the generation they belong to; results from an abandoned
// generation are dropped.
type quizGeneratedMsg struct {
	gen int
	rec quiz.Record
	err error
}

type revealDoneMsg struct {
	gen int
}

type attemptSavedMsg struct {
	gen     int
	attempt quiz.Attempt
	err     error
}

// Screen drives a quizsession.Machine from key presses.
type Screen struct {
	api     API
	note    quiz.Note
	machine *quizsession.Machine
	spinner spinner.Model

	// doneMenu is offered on Complete; failMenu on Failed, which allows
	// exit only.
	doneMenu components.Menu
	failMenu components.Menu

	gen    int
	cancel context.CancelFunc

	attemptSaved bool
	attemptErr   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the screen for note, waiting for confirmation.
func New(api API, note quiz.Note) *Screen {
	s := &Screen{
		api:     api,
		note:    note,
		machine: quizsession.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
	}
	s.doneMenu = components.NewMenu(
		components.MenuItem{Label: "Try Again", Shortcut: "r", Action: s.retry},
		components.MenuItem{Label: "Back to notes", Shortcut: "b", Action: back},
	)
	s.failMenu = components.NewMenu(
		components.MenuItem{Label: "Back to notes", Shortcut: "b", Action: back},
	)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.note.Title
}

// Phase exposes the session phase for the app and tests.
func (s *Screen) Phase() quizsession.Phase {
	return s.machine.Phase()
}

// Close abandons any in-flight generation.
func (s *Screen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.machine.Phase() {
	case quizsession.PhaseConfirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Generate quiz"},
			{Key: "N", Description: "Cancel"},
		}
	case quizsession.PhaseGenerating:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	case quizsession.PhaseAnswering:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case quizsession.PhaseRevealing:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Quit quiz"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizGeneratedMsg:
		return s, s.handleGenerated(msg)

	case revealDoneMsg:
		return s, s.handleRevealDone(msg)

	case attemptSavedMsg:
		if msg.gen == s.gen {
			s.attemptSaved = msg.err == nil
			if msg.err != nil {
				s.attemptErr = msg.err.Error()
			}
		}
		return s, nil

	case spinner.TickMsg:
		if s.machine.Phase() != quizsession.PhaseGenerating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch s.machine.Phase() {
	case quizsession.PhaseConfirming:
		switch key {
		case "y", "Y", "enter":
			return s.start()
		case "n", "N":
			return back()
		}

	case quizsession.PhaseAnswering:
		option, ok := components.OptionIndex(key)
		if !ok {
			return nil
		}
		accepted, err := s.machine.Select(option)
		if err != nil || !accepted {
			return nil
		}
		gen := s.gen
		return tea.Tick(quizsession.RevealDelay, func(time.Time) tea.Msg {
			return revealDoneMsg{gen: gen}
		})

	case quizsession.PhaseComplete:
		var cmd tea.Cmd
		s.doneMenu, cmd = s.doneMenu.Update(msg)
		return cmd

	case quizsession.PhaseFailed:
		var cmd tea.Cmd
		s.failMenu, cmd = s.failMenu.Update(msg)
		return cmd
	}

	// Generating and Revealing ignore keys; Esc is handled by the app.
	return nil
}

func (s *Screen) start() tea.Cmd {
	if err := s.machine.Start(); err != nil {
		return nil
	}

	s.gen++
	s.attemptSaved = false
	s.attemptErr = ""

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	api, noteID, gen := s.api, s.note.ID, s.gen
	generate := func() tea.Msg {
		rec, err := api.GenerateQuiz(ctx, noteID)
		return quizGeneratedMsg{gen: gen, rec: rec, err: err}
	}
	return tea.Batch(s.spinner.Tick, generate)
}

func (s *Screen) handleGenerated(msg quizGeneratedMsg) tea.Cmd {
	if msg.gen != s.gen || s.machine.Phase() != quizsession.PhaseGenerating {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err := s.machine.Resolve(msg.rec, msg.err); err != nil {
		return nil
	}
	s.failMenu.Selected = 0
	return nil
}

func (s *Screen) handleRevealDone(msg revealDoneMsg) tea.Cmd {
	if msg.gen != s.gen || s.machine.Phase() != quizsession.PhaseRevealing {
		return nil
	}
	if err := s.machine.Settle(); err != nil {
		return nil
	}

	done, ok := s.machine.State().(quizsession.Complete)
	if !ok || done.Total() == 0 {
		return nil
	}
	s.doneMenu.Selected = 0

	api, gen, quizID, answers := s.api, s.gen, done.Record.ID, done.Answers()
	return func() tea.Msg {
		attempt, err := api.SubmitAttempt(context.Background(), quizID, answers)
		return attemptSavedMsg{gen: gen, attempt: attempt, err: err}
	}
}

// retry returns a completed session to confirmation; the next quiz is a new
// record.
func (s *Screen) retry() tea.Cmd {
	if err := s.machine.Restart(); err != nil {
		return nil
	}
	s.gen++
	return nil
}

func back() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// failureMessage words a generation error for the user.
func failureMessage(err error) string {
	switch client.KindOf(err) {
	case quizgen.KindProviderUnavailable:
		return "The quiz service is unavailable right now. Please try again in a moment."
	case quizgen.KindEmptyResponse, quizgen.KindMalformedResponse, quizgen.KindInvalidQuestion:
		return "The generated quiz could not be used. Please try again."
	case quizgen.KindInvalidNote:
		return "This note needs a title and some content before it can be quizzed."
	case quizgen.KindPersistence:
		return "The quiz could not be saved. Please try again."
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return "This note no longer exists."
	case errors.Is(err, auth.ErrUnauthorized):
		return "Your session is not authorized. Issue a new token and restart."
	case errors.Is(err, context.Canceled):
		return "Quiz generation was cancelled."
	default:
		return "Failed to generate quiz. Please try again."
	}
}
