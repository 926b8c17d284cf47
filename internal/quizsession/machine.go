package quizsession

import (
	"errors"
	"fmt"

	"github.com/abhisek/notequiz/internal/quiz"
)

// ErrInvalidTransition is returned when an event does not apply to the
// current phase.
var ErrInvalidTransition = errors.New("invalid session transition")

// ErrInvalidOption is returned when a selection is outside the options.
var ErrInvalidOption = errors.New("option out of range")

// Machine drives one quiz attempt. It is not safe for concurrent use: every
// event comes from the single goroutine that owns the screen.
type Machine struct {
	state State
}

// New returns a machine in Confirming.
func New() *Machine {
	return &Machine{state: Confirming{}}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.state.Phase() }

// Start moves Confirming to Generating.
func (m *Machine) Start() error {
	if _, ok := m.state.(Confirming); !ok {
		return m.invalid("start")
	}
	m.state = Generating{}
	return nil
}

// Resolve delivers the generation outcome. A non-nil err moves to Failed.
// A record without questions goes straight to Complete with nothing to score.
func (m *Machine) Resolve(rec quiz.Record, err error) error {
	if _, ok := m.state.(Generating); !ok {
		return m.invalid("resolve")
	}
	switch {
	case err != nil:
		m.state = Failed{Err: err}
	case len(rec.Questions) == 0:
		m.state = Complete{Record: rec}
	default:
		m.state = Answering{
			Record:  rec,
			answers: make([]int, 0, len(rec.Questions)),
		}
	}
	return nil
}

// Select locks option as the answer to the current question. It reports
// whether the selection was accepted: a second selection while the outcome
// is on display is ignored.
func (m *Machine) Select(option int) (bool, error) {
	switch s := m.state.(type) {
	case Revealing:
		return false, nil
	case Answering:
		if option < 0 || option >= len(s.Question().Options) {
			return false, fmt.Errorf("%w: %d", ErrInvalidOption, option)
		}
		score := s.Score
		if s.Question().IsCorrect(option) {
			score++
		}
		m.state = Revealing{
			Record:   s.Record,
			Index:    s.Index,
			Selected: option,
			Score:    score,
			answers:  append(s.answers, option),
		}
		return true, nil
	default:
		return false, m.invalid("select")
	}
}

// Settle ends the reveal: the next question, or Complete after the last.
func (m *Machine) Settle() error {
	s, ok := m.state.(Revealing)
	if !ok {
		return m.invalid("settle")
	}
	if s.Last() {
		m.state = Complete{Record: s.Record, Score: s.Score, answers: s.answers}
		return nil
	}
	m.state = Answering{
		Record:  s.Record,
		Index:   s.Index + 1,
		Score:   s.Score,
		answers: s.answers,
	}
	return nil
}

// Restart begins a new attempt from Complete. The next Start generates a
// new quiz; the finished one is never reused.
func (m *Machine) Restart() error {
	if _, ok := m.state.(Complete); !ok {
		return m.invalid("restart")
	}
	m.state = Confirming{}
	return nil
}

func (m *Machine) invalid(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, m.state.Phase())
}
