package quiz

import "time"

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question is one multiple-choice item. Values are treated as immutable once
// constructed; callers copy Options before mutating.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswer"`
}

// IsCorrect reports whether option is the correct choice for q.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectIndex
}

// Record is a persisted, never-mutated set of questions derived from one note.
// A retry always produces a new Record.
type Record struct {
	ID        string     `json:"id"`
	NoteID    string     `json:"noteId"`
	UserID    string     `json:"userId"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Note is the free-form text a quiz is derived from.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Attempt captures the answers one user gave while taking a Record.
// Answers[i] is the first (and final) option selected for question i.
type Attempt struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quizId"`
	UserID    string    `json:"userId"`
	Answers   []int     `json:"answers"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// Score counts the answers that match the correct option of their question.
// Answers beyond the question count are ignored.
func Score(questions []Question, answers []int) int {
	score := 0
	for i, a := range answers {
		if i >= len(questions) {
			break
		}
		if questions[i].IsCorrect(a) {
			score++
		}
	}
	return score
}
