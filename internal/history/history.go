// Package history summarizes past quiz attempts for display.
package history

import (
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/notequiz/internal/quiz"
)

// Summary is the score of one attempt at a quiz.
type Summary struct {
	CorrectCount int `json:"correctCount"`
	Total        int `json:"total"`
}

// Summarize scores answers against the record's questions. answers holds the
// first selection for each question; a nil slice means the quiz was never
// attempted and scores zero.
func Summarize(rec quiz.Record, answers []int) Summary {
	return Summary{
		CorrectCount: quiz.Score(rec.Questions, answers),
		Total:        len(rec.Questions),
	}
}

// Percent returns the share of correct answers in [0, 100]. ok is false when
// Total is zero.
func (s Summary) Percent() (pct float64, ok bool) {
	if s.Total == 0 {
		return 0, false
	}
	return float64(s.CorrectCount) / float64(s.Total) * 100, true
}

// Display renders the percentage rounded to a whole number, or "N/A".
func (s Summary) Display() string {
	pct, ok := s.Percent()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", int(math.Round(pct)))
}

// Entry is one row of a note's quiz history.
type Entry struct {
	Quiz          quiz.Record   `json:"quiz"`
	LatestAttempt *quiz.Attempt `json:"latestAttempt"`
	Summary       Summary       `json:"summary"`
	Percent       string        `json:"percent"`
}

// Entries pairs each record with its most recent attempt and returns the
// rows newest quiz first. Attempts for other quizzes are ignored.
func Entries(records []quiz.Record, attempts []quiz.Attempt) []Entry {
	latest := make(map[string]quiz.Attempt, len(attempts))
	for _, a := range attempts {
		if cur, ok := latest[a.QuizID]; !ok || a.CreatedAt.After(cur.CreatedAt) {
			latest[a.QuizID] = a
		}
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		e := Entry{Quiz: rec}
		var answers []int
		if a, ok := latest[rec.ID]; ok {
			e.LatestAttempt = &a
			answers = a.Answers
		}
		e.Summary = Summarize(rec, answers)
		e.Percent = e.Summary.Display()
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Quiz.CreatedAt.After(entries[j].Quiz.CreatedAt)
	})
	return entries
}
