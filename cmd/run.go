package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/notequiz/internal/auth"
	"github.com/abhisek/notequiz/internal/config"
	"github.com/abhisek/notequiz/internal/llm"
	"github.com/abhisek/notequiz/internal/metrics"
	"github.com/abhisek/notequiz/internal/quizgen"
	"github.com/abhisek/notequiz/internal/server"
	"github.com/abhisek/notequiz/internal/store"
)

// devSecret signs tokens outside release mode when auth.secret is unset, so
// that `token issue` and `serve` agree on a fresh checkout.
const devSecret = "notequiz-development-secret-do-not-deploy"

// newTokens builds the token manager from the auth section.
func newTokens(cfg *config.Config, log *zap.Logger) *auth.Tokens {
	secret := cfg.Auth.Secret
	if secret == "" && !cfg.Release() {
		log.Warn("auth.secret not set; using the development secret")
		secret = devSecret
	}
	return auth.NewTokens(secret, cfg.Auth.TokenTTL)
}

// buildServer opens the LLM provider and assembles the HTTP API over st.
func buildServer(ctx context.Context, cfg *config.Config, st *store.Store, log *zap.Logger) (*server.Server, *auth.Tokens, error) {
	llmCfg := cfg.LLM()
	if err := llmCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
	if err != nil {
		return nil, nil, fmt.Errorf("create LLM provider: %w", err)
	}
	log.Info("LLM provider ready",
		zap.String("provider", llmCfg.Provider),
		zap.String("model", provider.ModelID()))

	m := metrics.New()
	gen := quizgen.New(provider, st.QuizRepo(),
		quizgen.WithLogger(log),
		quizgen.WithObserver(m),
	)

	tokens := newTokens(cfg, log)
	srv := server.New(server.Deps{
		Notes:     st.NoteRepo(),
		Quizzes:   st.QuizRepo(),
		Attempts:  st.AttemptRepo(),
		Generator: gen,
		Tokens:    tokens,
		DB:        st,
		Metrics:   m,
		Logger:    log,
		Version:   version,
		RateLimit: cfg.Server.RateLimit,
	})
	return srv, tokens, nil
}
