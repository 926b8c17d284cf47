package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/quizgen"
	"github.com/abhisek/notequiz/internal/store"
)

// AttemptInput is the body of POST /api/quizzes/:id/attempts.
type AttemptInput struct {
	Answers []int `json:"answers"`
}

func (s *Server) createQuiz(c *gin.Context) {
	note, ok := s.lookupNote(c)
	if !ok {
		return
	}

	// Generation failures of every kind collapse into one 500; the kind is
	// returned so clients can word the message.
	rec, err := s.deps.Generator.GenerateQuiz(c.Request.Context(), note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorBody{
			Message: "error creating quiz",
			Kind:    quizgen.Kind(err),
		})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) listQuizzes(c *gin.Context) {
	records, err := s.deps.Quizzes.FindByNoteAndUser(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		s.internalError(c, "error fetching quizzes", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) getQuiz(c *gin.Context) {
	rec, ok := s.lookupQuiz(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) createAttempt(c *gin.Context) {
	var in AttemptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rec, ok := s.lookupQuiz(c)
	if !ok {
		return
	}

	if len(in.Answers) != len(rec.Questions) {
		badRequest(c, fmt.Sprintf("expected %d answers, got %d", len(rec.Questions), len(in.Answers)))
		return
	}
	for i, a := range in.Answers {
		if a < 0 || a >= quiz.OptionCount {
			badRequest(c, fmt.Sprintf("answer %d out of range", i))
			return
		}
	}

	attempt, err := s.deps.Attempts.Save(c.Request.Context(), quiz.Attempt{
		QuizID:  rec.ID,
		UserID:  userID(c),
		Answers: in.Answers,
		Score:   quiz.Score(rec.Questions, in.Answers),
	})
	if err != nil {
		s.internalError(c, "error saving attempt", err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

func (s *Server) noteHistory(c *gin.Context) {
	note, ok := s.lookupNote(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	records, err := s.deps.Quizzes.FindByNoteAndUser(ctx, note.ID, note.UserID)
	if err != nil {
		s.internalError(c, "error fetching quizzes", err)
		return
	}
	attempts, err := s.deps.Attempts.ListByNote(ctx, note.ID, note.UserID)
	if err != nil {
		s.internalError(c, "error fetching attempts", err)
		return
	}
	c.JSON(http.StatusOK, history.Entries(records, attempts))
}

func (s *Server) lookupQuiz(c *gin.Context) (quiz.Record, bool) {
	rec, err := s.deps.Quizzes.FindByID(c.Request.Context(), c.Param("id"), userID(c))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "quiz not found")
		return quiz.Record{}, false
	}
	if err != nil {
		s.internalError(c, "error fetching quiz", err)
		return quiz.Record{}, false
	}
	return rec, true
}
