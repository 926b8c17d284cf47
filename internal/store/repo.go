package store

import (
	"context"
	"time"

	"github.com/abhisek/notequiz/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// QuizRepo persists generated quizzes. Records are append-only: there is no
// update operation.
type QuizRepo interface {
	// Save stores a new record, assigning an ID and timestamp when unset.
	Save(ctx context.Context, rec quiz.Record) (quiz.Record, error)

	// FindByNoteAndUser returns the note's quizzes for userID, newest first.
	FindByNoteAndUser(ctx context.Context, noteID, userID string) ([]quiz.Record, error)

	// FindByID returns the quiz or ErrNotFound if absent or not owned by userID.
	FindByID(ctx context.Context, quizID, userID string) (quiz.Record, error)
}

// NoteRepo manages the notes quizzes are derived from.
type NoteRepo interface {
	Create(ctx context.Context, note quiz.Note) (quiz.Note, error)

	// Get returns the note or ErrNotFound if absent or not owned by userID.
	Get(ctx context.Context, noteID, userID string) (quiz.Note, error)

	// List returns userID's notes, most recently updated first.
	List(ctx context.Context, userID string) ([]quiz.Note, error)

	// Update replaces title and content. Returns ErrNotFound when the note
	// is absent or owned by someone else.
	Update(ctx context.Context, note quiz.Note) (quiz.Note, error)

	// Delete removes the note together with its quizzes and attempts.
	Delete(ctx context.Context, noteID, userID string) error
}

// AttemptRepo persists the answers a user gave while taking a quiz.
type AttemptRepo interface {
	Save(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error)

	// LatestByQuiz returns the newest attempt, or ErrNotFound if the quiz was
	// never attempted by userID.
	LatestByQuiz(ctx context.Context, quizID, userID string) (quiz.Attempt, error)

	// ListByNote returns every attempt userID made on the note's quizzes,
	// newest first.
	ListByNote(ctx context.Context, noteID, userID string) ([]quiz.Attempt, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int
	Timestamp time.Time
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event, or nil if none has that ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}
