package home

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
	"github.com/abhisek/notequiz/internal/screens/history"
	"github.com/abhisek/notequiz/internal/screens/noteform"
	"github.com/abhisek/notequiz/internal/screens/play"
)

type fakeAPI struct {
	notes []quiz.Note
	err   error
	lists int
}

func (f *fakeAPI) ListNotes(context.Context) ([]quiz.Note, error) {
	f.lists++
	return f.notes, f.err
}

func (f *fakeAPI) CreateNote(_ context.Context, title, content string) (quiz.Note, error) {
	return quiz.Note{Title: title, Content: content}, nil
}

func (f *fakeAPI) GenerateQuiz(context.Context, string) (quiz.Record, error) {
	return quiz.Record{}, nil
}

func (f *fakeAPI) SubmitAttempt(context.Context, string, []int) (quiz.Attempt, error) {
	return quiz.Attempt{}, nil
}

func (f *fakeAPI) History(context.Context, string) ([]quizhistory.Entry, error) {
	return nil, nil
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func loaded(t *testing.T, api *fakeAPI) *HomeScreen {
	t.Helper()
	h := New(api)
	h.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	h.Update(h.Init()())
	return h
}

func pushed(t *testing.T, cmd tea.Cmd) any {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg.Screen
}

func twoNotes() []quiz.Note {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []quiz.Note{
		{ID: "n2", Title: "Cell Biology", Content: "Mitochondria\nproduce ATP.", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "n1", Title: "Photosynthesis", Content: "Light to sugar.", CreatedAt: base.Add(-48 * time.Hour)},
	}
}

func TestHome_ListsNotes(t *testing.T) {
	h := loaded(t, &fakeAPI{notes: twoNotes()})
	view := h.View(100, 30)
	for _, want := range []string{"Cell Biology", "Photosynthesis", "2 hours ago", "Mitochondria produce ATP.", "2 notes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHome_EmptyAndError(t *testing.T) {
	h := loaded(t, &fakeAPI{})
	if !strings.Contains(h.View(100, 30), "No notes yet") {
		t.Error("expected empty state")
	}

	h = loaded(t, &fakeAPI{err: errors.New("authorization required")})
	if !strings.Contains(h.View(100, 30), "authorization required") {
		t.Error("expected error message")
	}
	if _, ok := h.current(); ok {
		t.Error("no note should be selectable")
	}
	if _, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter with no notes should do nothing")
	}
}

func TestHome_OpensScreensForSelectedNote(t *testing.T) {
	h := loaded(t, &fakeAPI{notes: twoNotes()})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	p, ok := pushed(t, cmd).(*play.Screen)
	if !ok || p.Title() != "Photosynthesis" {
		t.Errorf("enter pushed %#v, want play screen for Photosynthesis", p)
	}

	_, cmd = h.Update(press('h'))
	hs, ok := pushed(t, cmd).(*history.HistoryScreen)
	if !ok || hs.Title() != "History: Photosynthesis" {
		t.Errorf("h pushed %#v, want history for Photosynthesis", hs)
	}

	_, cmd = h.Update(press('n'))
	if _, ok := pushed(t, cmd).(*noteform.Screen); !ok {
		t.Error("n should push the note form")
	}
}

func TestHome_ResumeReloads(t *testing.T) {
	api := &fakeAPI{notes: twoNotes()[:1]}
	h := loaded(t, api)
	h.selected = 0

	api.notes = twoNotes()
	h.Update(h.Resume()())
	if api.lists != 2 || len(h.notes) != 2 {
		t.Errorf("lists=%d notes=%d, want reload", api.lists, len(h.notes))
	}

	api.notes = nil
	h.selected = 1
	_, cmd := h.Update(press('r'))
	h.Update(cmd())
	if h.selected != 0 {
		t.Errorf("selected = %d after shrink, want 0", h.selected)
	}
}

func TestHome_KeyHints(t *testing.T) {
	h := loaded(t, &fakeAPI{})
	for _, hint := range h.KeyHints() {
		if hint.Key == "Enter" {
			t.Error("Enter hint shown with no notes")
		}
	}
}
