package quizsession

import (
	"time"

	"github.com/abhisek/notequiz/internal/quiz"
)

// RevealDelay is how long the outcome of an answer stays on screen before
// the session moves on.
const RevealDelay = time.Second

// Phase names the kind of State a session is in.
type Phase int

const (
	PhaseConfirming Phase = iota // Waiting for the user to opt in
	PhaseGenerating              // Quiz generation in flight
	PhaseAnswering               // Current question awaiting a selection
	PhaseRevealing               // Selection locked, outcome on display
	PhaseComplete                // Final score shown
	PhaseFailed                  // Generation failed; exit only
)

func (p Phase) String() string {
	switch p {
	case PhaseConfirming:
		return "confirming"
	case PhaseGenerating:
		return "generating"
	case PhaseAnswering:
		return "answering"
	case PhaseRevealing:
		return "revealing"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is one of Confirming, Generating, Answering, Revealing, Complete or
// Failed. The set is closed.
type State interface {
	Phase() Phase
	sealed()
}

// Confirming waits for the user to start generation.
type Confirming struct{}

// Generating waits for the generation result.
type Generating struct{}

// Answering shows Record.Questions[Index] and accepts one selection.
type Answering struct {
	Record  quiz.Record
	Index   int
	Score   int
	answers []int
}

// Question returns the question being asked.
func (a Answering) Question() quiz.Question { return a.Record.Questions[a.Index] }

// Total returns the number of questions in the quiz.
func (a Answering) Total() int { return len(a.Record.Questions) }

// Revealing shows the outcome of the locked selection for Index.
type Revealing struct {
	Record   quiz.Record
	Index    int
	Selected int
	Score    int
	answers  []int
}

// Question returns the question that was just answered.
func (r Revealing) Question() quiz.Question { return r.Record.Questions[r.Index] }

// Correct reports whether the locked selection was right.
func (r Revealing) Correct() bool { return r.Question().IsCorrect(r.Selected) }

// Total returns the number of questions in the quiz.
func (r Revealing) Total() int { return len(r.Record.Questions) }

// Last reports whether Index is the final question.
func (r Revealing) Last() bool { return r.Index == len(r.Record.Questions)-1 }

// Complete holds the final result of an attempt.
type Complete struct {
	Record  quiz.Record
	Score   int
	answers []int
}

// Total returns the number of questions in the quiz.
func (c Complete) Total() int { return len(c.Record.Questions) }

// Ratio returns Score/Total. ok is false when the quiz has no questions.
func (c Complete) Ratio() (ratio float64, ok bool) {
	if c.Total() == 0 {
		return 0, false
	}
	return float64(c.Score) / float64(c.Total()), true
}

// Answers returns the selection made for each question, in order.
func (c Complete) Answers() []int {
	out := make([]int, len(c.answers))
	copy(out, c.answers)
	return out
}

// Feedback returns the closing message for the score.
func (c Complete) Feedback() string {
	ratio, ok := c.Ratio()
	switch {
	case !ok:
		return "No questions to score."
	case c.Score == c.Total():
		return "Perfect score! Excellent work!"
	case ratio >= 0.7:
		return "Great job! Keep practicing!"
	default:
		return "Keep studying and try again!"
	}
}

// Failed ends an attempt whose generation failed.
type Failed struct {
	Err error
}

func (Confirming) Phase() Phase { return PhaseConfirming }
func (Generating) Phase() Phase { return PhaseGenerating }
func (Answering) Phase() Phase  { return PhaseAnswering }
func (Revealing) Phase() Phase  { return PhaseRevealing }
func (Complete) Phase() Phase   { return PhaseComplete }
func (Failed) Phase() Phase     { return PhaseFailed }

func (Confirming) sealed() {}
func (Generating) sealed() {}
func (Answering) sealed()  {}
func (Revealing) sealed()  {}
func (Complete) sealed()   {}
func (Failed) sealed()     {}
