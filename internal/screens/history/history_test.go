package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	quizhistory "github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/router"
)

type fakeAPI struct {
	entries []quizhistory.Entry
	err     error
	noteID  string
}

func (f *fakeAPI) History(_ context.Context, noteID string) ([]quizhistory.Entry, error) {
	f.noteID = noteID
	return f.entries, f.err
}

func sampleEntries(now time.Time) []quizhistory.Entry {
	rec := quiz.Record{ID: "quiz-1", CreatedAt: now.Add(-time.Hour)}
	for i := range 5 {
		rec.Questions = append(rec.Questions, quiz.Question{
			Text:         "Question " + string(rune('A'+i)),
			Options:      []string{"w", "x", "y", "z"},
			CorrectIndex: 0,
		})
	}
	attempt := quiz.Attempt{QuizID: "quiz-1", Answers: []int{0, 0, 0, 0, 1}, CreatedAt: now.Add(-3 * time.Minute)}
	untaken := quiz.Record{ID: "quiz-2", Questions: rec.Questions, CreatedAt: now}

	return quizhistory.Entries([]quiz.Record{rec, untaken}, []quiz.Attempt{attempt})
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned nil")
	}
	s.Update(cmd())
}

func TestHistoryScreen_LoadsForNote(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{entries: sampleEntries(now)}
	s := New(api, quiz.Note{ID: "note-7", Title: "Photosynthesis"})
	s.now = func() time.Time { return now }

	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view before data arrives")
	}

	load(t, s)
	if api.noteID != "note-7" {
		t.Errorf("History called with %q, want note-7", api.noteID)
	}

	view := s.View(120, 30)
	for _, want := range []string{"80%", "0%", "3 minutes ago", "not attempted"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if s.Title() != "History: Photosynthesis" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeAPI{}, quiz.Note{ID: "n"})
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No quizzes yet") {
		t.Error("expected empty-state message")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := New(&fakeAPI{err: errors.New("connection refused")}, quiz.Note{ID: "n"})
	load(t, s)
	if !strings.Contains(s.View(100, 30), "connection refused") {
		t.Error("expected error message")
	}
}

func TestHistoryScreen_NavigateAndExpand(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(&fakeAPI{entries: sampleEntries(now)}, quiz.Note{ID: "n"})
	s.now = func() time.Time { return now }
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("selected = %d, want 1 (clamped)", s.selected)
	}
	// Entries are newest first; the attempted quiz is second.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.expanded[1] {
		t.Fatal("enter should expand the selected entry")
	}

	view := s.View(120, 40)
	if !strings.Contains(view, "4/5") || !strings.Contains(view, "✗") {
		t.Errorf("expanded view missing score detail:\n%s", view)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}
