// Package server exposes notes, quiz generation, attempts and history over a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/notequiz/internal/auth"
	"github.com/abhisek/notequiz/internal/config"
	"github.com/abhisek/notequiz/internal/metrics"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/store"
)

// QuizGenerator derives and persists a quiz for a note the caller owns.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, note quiz.Note) (quiz.Record, error)
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the API routes through. Metrics is optional.
type Deps struct {
	Notes     store.NoteRepo
	Quizzes   store.QuizRepo
	Attempts  store.AttemptRepo
	Generator QuizGenerator
	Tokens    *auth.Tokens
	DB        Pinger
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Version   string
	RateLimit config.RateLimitConfig
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	log    *zap.Logger
	engine *gin.Engine
}

// New wires middleware and routes. Gin's mode is process-global and is left
// to the caller.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		deps:   deps,
		log:    deps.Logger,
		engine: gin.New(),
	}

	s.engine.Use(recovery(s.log), requestLogger(s.log), secureHeaders())
	if deps.Metrics != nil {
		s.engine.Use(deps.Metrics.Middleware())
	}
	switch rl := deps.RateLimit; {
	case rl.Enabled():
		s.engine.Use(newRateLimiter(rl.MaxRequests, rl.Window, time.Now).middleware())
	case rl.MaxRequests > 0:
		s.log.Warn("rate limit has no window, limiter disabled",
			zap.Int("max_requests", rl.MaxRequests), zap.Duration("window", rl.Window))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine

	if s.deps.Metrics != nil {
		r.GET("/metrics", s.deps.Metrics.Handler())
	}

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/version", s.version)

	authed := api.Group("", authenticate(s.deps.Tokens, s.log))

	authed.GET("/notes", s.listNotes)
	authed.POST("/notes", s.createNote)
	authed.GET("/notes/:id", s.getNote)
	authed.PUT("/notes/:id", s.updateNote)
	authed.DELETE("/notes/:id", s.deleteNote)

	authed.POST("/notes/:id/quiz", s.createQuiz)
	authed.GET("/notes/:id/quizzes", s.listQuizzes)
	authed.GET("/notes/:id/history", s.noteHistory)

	authed.GET("/quizzes/:id", s.getQuiz)
	authed.POST("/quizzes/:id/attempts", s.createAttempt)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(c.Request.Context()); err != nil {
			s.log.Error("health check failed", zap.Error(err))
			errorJSON(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": s.deps.Version})
}
