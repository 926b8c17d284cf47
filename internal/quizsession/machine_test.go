package quizsession

import (
	"errors"
	"testing"

	"github.com/abhisek/notequiz/internal/quiz"
)

func fiveQuestions() quiz.Record {
	qs := make([]quiz.Question, 5)
	for i := range qs {
		qs[i] = quiz.Question{
			Text:         "Q",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
		}
	}
	return quiz.Record{ID: "quiz-1", Questions: qs}
}

func answering(t *testing.T, rec quiz.Record) *Machine {
	t.Helper()
	m := New()
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Resolve(rec, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return m
}

func wrong(q quiz.Question) int { return (q.CorrectIndex + 1) % 4 }

func TestMachine_StartsConfirming(t *testing.T) {
	m := New()
	if m.Phase() != PhaseConfirming {
		t.Fatalf("phase = %s", m.Phase())
	}
}

func TestMachine_ScoresCorrectAnswers(t *testing.T) {
	rec := fiveQuestions()
	m := answering(t, rec)

	// Correct on questions 1, 3 and 5 (1-based), wrong on 2 and 4.
	for i, q := range rec.Questions {
		option := q.CorrectIndex
		if i == 1 || i == 3 {
			option = wrong(q)
		}

		a, ok := m.State().(Answering)
		if !ok {
			t.Fatalf("question %d: phase = %s, want answering", i, m.Phase())
		}
		if a.Index != i {
			t.Fatalf("index = %d, want %d", a.Index, i)
		}
		if a.Score > a.Index+1 {
			t.Fatalf("score %d exceeds index+1", a.Score)
		}

		accepted, err := m.Select(option)
		if err != nil || !accepted {
			t.Fatalf("select %d: accepted=%v err=%v", i, accepted, err)
		}
		r := m.State().(Revealing)
		if r.Correct() != (option == q.CorrectIndex) {
			t.Fatalf("question %d: correct = %v", i, r.Correct())
		}
		if err := m.Settle(); err != nil {
			t.Fatalf("settle %d: %v", i, err)
		}
	}

	c, ok := m.State().(Complete)
	if !ok {
		t.Fatalf("phase = %s, want complete", m.Phase())
	}
	if c.Score != 3 || c.Total() != 5 {
		t.Fatalf("score = %d/%d, want 3/5", c.Score, c.Total())
	}
	if ratio, ok := c.Ratio(); !ok || ratio != 0.6 {
		t.Fatalf("ratio = %v ok=%v", ratio, ok)
	}
	if got := c.Feedback(); got != "Keep studying and try again!" {
		t.Fatalf("feedback = %q", got)
	}

	answers := c.Answers()
	for i, q := range rec.Questions {
		want := q.CorrectIndex
		if i == 1 || i == 3 {
			want = wrong(q)
		}
		if answers[i] != want {
			t.Errorf("answers[%d] = %d, want %d", i, answers[i], want)
		}
	}
	if quiz.Score(rec.Questions, answers) != c.Score {
		t.Fatal("recorded answers disagree with the live score")
	}
}

func TestMachine_FirstAnswerIsFinal(t *testing.T) {
	rec := fiveQuestions()
	m := answering(t, rec)

	first := wrong(rec.Questions[0])
	if ok, err := m.Select(first); !ok || err != nil {
		t.Fatalf("first select: %v %v", ok, err)
	}
	accepted, err := m.Select(rec.Questions[0].CorrectIndex)
	if err != nil {
		t.Fatalf("second select returned error: %v", err)
	}
	if accepted {
		t.Fatal("second selection must be ignored")
	}

	r := m.State().(Revealing)
	if r.Selected != first || r.Score != 0 {
		t.Fatalf("selection changed: selected=%d score=%d", r.Selected, r.Score)
	}
}

func TestMachine_GenerationFailure(t *testing.T) {
	m := New()
	_ = m.Start()
	cause := errors.New("provider unavailable")
	if err := m.Resolve(quiz.Record{}, cause); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	f, ok := m.State().(Failed)
	if !ok {
		t.Fatalf("phase = %s, want failed", m.Phase())
	}
	if !errors.Is(f.Err, cause) {
		t.Fatalf("err = %v", f.Err)
	}

	// Failed offers exit only.
	if err := m.Restart(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("restart from failed: %v", err)
	}
	if _, err := m.Select(0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("select from failed: %v", err)
	}
}

func TestMachine_Restart(t *testing.T) {
	rec := fiveQuestions()
	m := answering(t, rec)
	for _, q := range rec.Questions {
		_, _ = m.Select(q.CorrectIndex)
		_ = m.Settle()
	}

	c := m.State().(Complete)
	if c.Feedback() != "Perfect score! Excellent work!" {
		t.Fatalf("feedback = %q", c.Feedback())
	}

	if err := m.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if m.Phase() != PhaseConfirming {
		t.Fatalf("phase = %s", m.Phase())
	}
	if err := m.Start(); err != nil {
		t.Fatalf("start again: %v", err)
	}
	if m.Phase() != PhaseGenerating {
		t.Fatalf("phase = %s", m.Phase())
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := New()
	if _, err := m.Select(0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("select while confirming: %v", err)
	}
	if err := m.Settle(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("settle while confirming: %v", err)
	}
	if err := m.Resolve(fiveQuestions(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("resolve while confirming: %v", err)
	}

	_ = m.Start()
	if err := m.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("start while generating: %v", err)
	}
	if _, err := m.Select(0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("select while generating: %v", err)
	}

	_ = m.Resolve(fiveQuestions(), nil)
	if err := m.Settle(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("settle while answering: %v", err)
	}
	if err := m.Restart(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("restart while answering: %v", err)
	}
}

func TestMachine_OptionOutOfRange(t *testing.T) {
	m := answering(t, fiveQuestions())
	for _, opt := range []int{-1, 4} {
		accepted, err := m.Select(opt)
		if !errors.Is(err, ErrInvalidOption) || accepted {
			t.Fatalf("select %d: accepted=%v err=%v", opt, accepted, err)
		}
	}
	if m.Phase() != PhaseAnswering {
		t.Fatalf("phase = %s, want answering", m.Phase())
	}
}

func TestComplete_ZeroQuestions(t *testing.T) {
	m := New()
	_ = m.Start()
	if err := m.Resolve(quiz.Record{ID: "empty"}, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	c, ok := m.State().(Complete)
	if !ok {
		t.Fatalf("phase = %s, want complete", m.Phase())
	}
	if _, ok := c.Ratio(); ok {
		t.Fatal("ratio must be undefined for zero questions")
	}
	if c.Feedback() != "No questions to score." {
		t.Fatalf("feedback = %q", c.Feedback())
	}
}

func TestComplete_Feedback(t *testing.T) {
	rec := fiveQuestions()
	tests := []struct {
		score int
		want  string
	}{
		{5, "Perfect score! Excellent work!"},
		{4, "Great job! Keep practicing!"},
		{3, "Keep studying and try again!"},
		{0, "Keep studying and try again!"},
	}
	for _, tt := range tests {
		c := Complete{Record: rec, Score: tt.score}
		if got := c.Feedback(); got != tt.want {
			t.Errorf("score %d: feedback = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseRevealing.String() != "revealing" || Phase(99).String() != "unknown" {
		t.Fatal("unexpected phase names")
	}
}
