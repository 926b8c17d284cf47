// Package client talks to the notequiz HTTP API on behalf of the terminal
// client and CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/notequiz/internal/auth"
	"github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/quiz"
	"github.com/abhisek/notequiz/internal/store"
)

// APIError is a non-2xx response. Kind is set for quiz generation failures.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Kind)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps 401 and 404 onto the matching package sentinels so callers
// can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return auth.ErrUnauthorized
	case http.StatusNotFound:
		return store.ErrNotFound
	default:
		return nil
	}
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a client for the API rooted at baseURL, authenticating with
// token. The default http.Client has no timeout; quiz generation is bounded
// server-side and by the caller's context.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListNotes(ctx context.Context) ([]quiz.Note, error) {
	var notes []quiz.Note
	err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes)
	return notes, err
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (quiz.Note, error) {
	var note quiz.Note
	body := map[string]string{"title": title, "content": content}
	err := c.do(ctx, http.MethodPost, "/api/notes", body, &note)
	return note, err
}

func (c *Client) GetNote(ctx context.Context, noteID string) (quiz.Note, error) {
	var note quiz.Note
	err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(noteID), nil, &note)
	return note, err
}

// GenerateQuiz asks the server for a new quiz. It blocks for the whole
// provider call.
func (c *Client) GenerateQuiz(ctx context.Context, noteID string) (quiz.Record, error) {
	var rec quiz.Record
	err := c.do(ctx, http.MethodPost, "/api/notes/"+url.PathEscape(noteID)+"/quiz", nil, &rec)
	return rec, err
}

func (c *Client) ListQuizzes(ctx context.Context, noteID string) ([]quiz.Record, error) {
	var records []quiz.Record
	err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(noteID)+"/quizzes", nil, &records)
	return records, err
}

func (c *Client) GetQuiz(ctx context.Context, quizID string) (quiz.Record, error) {
	var rec quiz.Record
	err := c.do(ctx, http.MethodGet, "/api/quizzes/"+url.PathEscape(quizID), nil, &rec)
	return rec, err
}

func (c *Client) SubmitAttempt(ctx context.Context, quizID string, answers []int) (quiz.Attempt, error) {
	var attempt quiz.Attempt
	body := map[string][]int{"answers": answers}
	err := c.do(ctx, http.MethodPost, "/api/quizzes/"+url.PathEscape(quizID)+"/attempts", body, &attempt)
	return attempt, err
}

func (c *Client) History(ctx context.Context, noteID string) ([]history.Entry, error) {
	var entries []history.Entry
	err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(noteID)+"/history", nil, &entries)
	return entries, err
}

// ServerVersion returns the version the server reports.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// WaitReady polls the health endpoint until it answers 200 or ctx ends.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	for {
		err := c.do(ctx, http.MethodGet, "/api/health", nil, nil)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("server not ready: %w", err)
		case <-time.After(interval):
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Kind = body.Kind
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// KindOf returns the generation failure kind carried by err, or "".
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
