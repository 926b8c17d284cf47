package quizgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/notequiz/internal/llm"
	"github.com/abhisek/notequiz/internal/quiz"
)

// QuizSaver persists a generated record.
type QuizSaver interface {
	Save(ctx context.Context, rec quiz.Record) (quiz.Record, error)
}

// Observer receives one call per GenerateQuiz with the outcome kind
// ("" on success) and the elapsed time.
type Observer interface {
	ObserveGeneration(kind string, elapsed time.Duration)
}

// Generator turns a note into a persisted quiz: prompt, one provider call,
// normalize, validate, save. Every failure aborts the whole attempt and
// nothing is saved.
type Generator struct {
	provider llm.Provider
	saver    QuizSaver
	log      *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for generation outcomes.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithObserver reports each outcome to o.
func WithObserver(o Observer) Option {
	return func(g *Generator) { g.observer = o }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc overrides record ID generation.
func WithIDFunc(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

// New creates a Generator.
func New(provider llm.Provider, saver QuizSaver, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		saver:    saver,
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateQuiz derives a quiz from note and persists it for the note's owner.
// A returned record always has exactly QuestionCount questions.
func (g *Generator) GenerateQuiz(ctx context.Context, note quiz.Note) (rec quiz.Record, err error) {
	start := time.Now()
	defer func() {
		kind := Kind(err)
		if g.observer != nil {
			g.observer.ObserveGeneration(kind, time.Since(start))
		}
		if err != nil {
			g.log.Warn("quiz generation failed",
				zap.String("note_id", note.ID),
				zap.String("kind", kind),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		g.log.Info("quiz generated",
			zap.String("note_id", note.ID),
			zap.String("quiz_id", rec.ID),
			zap.Int("questions", len(rec.Questions)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	if strings.TrimSpace(note.Title) == "" || strings.TrimSpace(note.Content) == "" {
		return quiz.Record{}, ErrEmptyNote
	}

	questions, err := g.questions(ctx, note)
	if err != nil {
		return quiz.Record{}, err
	}

	rec, err = g.saver.Save(ctx, quiz.Record{
		ID:        g.newID(),
		NoteID:    note.ID,
		UserID:    note.UserID,
		Questions: questions,
		CreatedAt: g.now(),
	})
	if err != nil {
		return quiz.Record{}, fmt.Errorf("save quiz: %w", err)
	}
	return rec, nil
}

// questions runs the provider call through normalization and validation.
func (g *Generator) questions(ctx context.Context, note quiz.Note) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	raw, err := llm.GenerateText(ctx, g.provider, BuildPrompt(note))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	questions, err := Validate(Normalize(raw))
	if err != nil {
		return nil, err
	}
	if len(questions) != QuestionCount {
		return nil, &MalformedError{
			Detail: fmt.Sprintf("got %d questions, want %d", len(questions), QuestionCount),
		}
	}
	return questions, nil
}
