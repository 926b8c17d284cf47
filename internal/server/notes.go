package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/store"
)

// NoteInput is the body accepted when creating or updating a note.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in NoteInput) validate() string {
	if strings.TrimSpace(in.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(in.Content) == "" {
		return "content is required"
	}
	return ""
}

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.deps.Notes.List(c.Request.Context(), userID(c))
	if err != nil {
		s.internalError(c, "error fetching notes", err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) createNote(c *gin.Context) {
	var in NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if msg := in.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	note, err := s.deps.Notes.Create(c.Request.Context(), quiz.Note{
		UserID:  userID(c),
		Title:   in.Title,
		Content: in.Content,
	})
	if err != nil {
		s.internalError(c, "error creating note", err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) getNote(c *gin.Context) {
	note, ok := s.lookupNote(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) updateNote(c *gin.Context) {
	var in NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if msg := in.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	note, err := s.deps.Notes.Update(c.Request.Context(), quiz.Note{
		ID:      c.Param("id"),
		UserID:  userID(c),
		Title:   in.Title,
		Content: in.Content,
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "note not found")
		return
	}
	if err != nil {
		s.internalError(c, "error updating note", err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	err := s.deps.Notes.Delete(c.Request.Context(), c.Param("id"), userID(c))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "note not found")
		return
	}
	if err != nil {
		s.internalError(c, "error deleting note", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupNote loads the :id note for the caller, writing 404 or 500 itself
// when it returns false.
func (s *Server) lookupNote(c *gin.Context) (quiz.Note, bool) {
	note, err := s.deps.Notes.Get(c.Request.Context(), c.Param("id"), userID(c))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "note not found")
		return quiz.Note{}, false
	}
	if err != nil {
		s.internalError(c, "error fetching note", err)
		return quiz.Note{}, false
	}
	return note, true
}
