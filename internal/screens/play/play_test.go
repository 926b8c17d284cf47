package play

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/notequiz/internal/client"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/quizsession"
	"github.com/abhisek/notequiz/internal/router"
)

type fakeAPI struct {
	mu        sync.Mutex
	rec       quiz.Record
	genErr    error
	block     bool
	submitted [][]int
}

func (f *fakeAPI) GenerateQuiz(ctx context.Context, _ string) (quiz.Record, error) {
	if f.block {
		<-ctx.Done()
		return quiz.Record{}, ctx.Err()
	}
	return f.rec, f.genErr
}

func (f *fakeAPI) SubmitAttempt(_ context.Context, quizID string, answers []int) (quiz.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, answers)
	return quiz.Attempt{QuizID: quizID, Answers: answers}, nil
}

func fiveQuestions() quiz.Record {
	rec := quiz.Record{ID: "quiz-1", NoteID: "note-1"}
	for i := range 5 {
		rec.Questions = append(rec.Questions, quiz.Question{
			Text:         "Question?",
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % 4,
		})
	}
	return rec
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func note() quiz.Note {
	return quiz.Note{ID: "note-1", UserID: "user-1", Title: "Photosynthesis", Content: "Plants convert light into chemical energy"}
}

// startedScreen confirms and delivers rec as the generation result.
func startedScreen(t *testing.T, api *fakeAPI) *Screen {
	t.Helper()
	s := New(api, note())
	s.Update(keyPress('y'))
	if s.Phase() != quizsession.PhaseGenerating {
		t.Fatalf("phase = %s after confirm, want generating", s.Phase())
	}
	s.Update(quizGeneratedMsg{gen: s.gen, rec: api.rec})
	return s
}

func TestScreen_StartsConfirming(t *testing.T) {
	s := New(&fakeAPI{}, note())
	if s.Phase() != quizsession.PhaseConfirming {
		t.Fatalf("phase = %s, want confirming", s.Phase())
	}
	if !strings.Contains(s.View(80, 24), "Photosynthesis") {
		t.Error("confirm view should name the note")
	}
}

func TestScreen_DeclineConfirmPops(t *testing.T) {
	s := New(&fakeAPI{}, note())
	_, cmd := s.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestScreen_FullSession(t *testing.T) {
	api := &fakeAPI{rec: fiveQuestions()}
	s := startedScreen(t, api)

	if s.Phase() != quizsession.PhaseAnswering {
		t.Fatalf("phase = %s, want answering", s.Phase())
	}

	// Correct on questions 1, 3 and 5; wrong on 2 and 4.
	keys := []rune{'a', 'a', 'c', 'a', 'a'}
	var cmd tea.Cmd
	for i, k := range keys {
		_, cmd = s.Update(keyPress(k))
		if cmd == nil {
			t.Fatalf("question %d: expected reveal tick", i+1)
		}
		if s.Phase() != quizsession.PhaseRevealing {
			t.Fatalf("question %d: phase = %s, want revealing", i+1, s.Phase())
		}
		_, cmd = s.Update(revealDoneMsg{gen: s.gen})
	}

	done, ok := s.machine.State().(quizsession.Complete)
	if !ok {
		t.Fatalf("state = %T, want Complete", s.machine.State())
	}
	if done.Score != 3 {
		t.Errorf("score = %d, want 3", done.Score)
	}

	if cmd == nil {
		t.Fatal("expected attempt submission command")
	}
	s.Update(cmd())
	if len(api.submitted) != 1 {
		t.Fatalf("submitted %d attempts, want 1", len(api.submitted))
	}
	want := []int{0, 0, 2, 0, 0}
	for i := range want {
		if api.submitted[0][i] != want[i] {
			t.Errorf("answers = %v, want %v", api.submitted[0], want)
			break
		}
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "3/5") || !strings.Contains(view, "Keep studying") {
		t.Errorf("complete view missing score or feedback:\n%s", view)
	}
	if !strings.Contains(view, "Attempt saved") {
		t.Error("complete view should confirm the saved attempt")
	}
}

func TestScreen_SecondKeyDuringRevealIgnored(t *testing.T) {
	s := startedScreen(t, &fakeAPI{rec: fiveQuestions()})

	s.Update(keyPress('b'))
	_, cmd := s.Update(keyPress('a'))
	if cmd != nil {
		t.Error("second selection should not schedule another reveal")
	}

	rev, ok := s.machine.State().(quizsession.Revealing)
	if !ok || rev.Selected != 1 {
		t.Errorf("state = %#v, want Revealing with first selection", s.machine.State())
	}
}

func TestScreen_NonOptionKeysIgnored(t *testing.T) {
	s := startedScreen(t, &fakeAPI{rec: fiveQuestions()})
	_, cmd := s.Update(keyPress('x'))
	if cmd != nil || s.Phase() != quizsession.PhaseAnswering {
		t.Error("non-option key should be ignored")
	}
}

func TestScreen_GenerationFailure(t *testing.T) {
	api := &fakeAPI{genErr: &client.APIError{StatusCode: 500, Message: "error creating quiz", Kind: "provider_unavailable"}}
	s := New(api, note())
	s.Update(keyPress('y'))
	s.Update(quizGeneratedMsg{gen: s.gen, err: api.genErr})

	if s.Phase() != quizsession.PhaseFailed {
		t.Fatalf("phase = %s, want failed", s.Phase())
	}
	if !strings.Contains(s.View(100, 30), "unavailable") {
		t.Error("failed view should explain the outage")
	}

	// Failed offers exit only.
	if _, cmd := s.Update(keyPress('r')); cmd != nil || s.Phase() != quizsession.PhaseFailed {
		t.Error("failed session should not restart")
	}
	_, cmd := s.Update(keyPress('b'))
	if cmd == nil {
		t.Fatal("expected back command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("back should pop the screen")
	}
}

func TestScreen_TryAgainAfterComplete(t *testing.T) {
	api := &fakeAPI{rec: fiveQuestions()}
	s := startedScreen(t, api)
	for range 5 {
		s.Update(keyPress('a'))
		s.Update(revealDoneMsg{gen: s.gen})
	}
	if s.Phase() != quizsession.PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.Phase())
	}

	s.Update(keyPress('r'))
	if s.Phase() != quizsession.PhaseConfirming {
		t.Fatalf("phase = %s after Try Again, want confirming", s.Phase())
	}
	if strings.Contains(s.View(100, 30), "Attempt saved") {
		t.Error("new attempt should not show the previous save status")
	}
}

func TestScreen_StaleResultsDropped(t *testing.T) {
	api := &fakeAPI{rec: fiveQuestions()}
	s := New(api, note())
	s.Update(keyPress('y'))
	stale := s.gen

	s.Update(quizGeneratedMsg{gen: stale + 1, rec: api.rec})
	if s.Phase() != quizsession.PhaseGenerating {
		t.Fatalf("phase = %s, result for another generation must be dropped", s.Phase())
	}

	s.Update(quizGeneratedMsg{gen: stale, rec: api.rec})
	s.Update(keyPress('a'))
	s.Update(revealDoneMsg{gen: stale - 1})
	if s.Phase() != quizsession.PhaseRevealing {
		t.Errorf("phase = %s, stale reveal must be dropped", s.Phase())
	}
}

func TestScreen_CloseCancelsGeneration(t *testing.T) {
	s := New(&fakeAPI{block: true}, note())
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected generation command")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}

	results := make(chan tea.Msg, len(batch))
	for _, c := range batch {
		go func() { results <- c() }()
	}

	s.Close()

	deadline := time.After(2 * time.Second)
	for range batch {
		select {
		case msg := <-results:
			if gen, ok := msg.(quizGeneratedMsg); ok {
				if !errors.Is(gen.err, context.Canceled) {
					t.Errorf("err = %v, want context.Canceled", gen.err)
				}
				return
			}
		case <-deadline:
			t.Fatal("generation was not cancelled")
		}
	}
	t.Fatal("no generation result received")
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&client.APIError{StatusCode: 500, Kind: "malformed_response"}, "could not be used"},
		{&client.APIError{StatusCode: 404}, "no longer exists"},
		{&client.APIError{StatusCode: 401}, "not authorized"},
		{context.Canceled, "cancelled"},
		{errors.New("boom"), "Failed to generate quiz"},
	}
	for _, tt := range tests {
		if got := failureMessage(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("failureMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
