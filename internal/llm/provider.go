package llm

import (
	"context"
	"strings"
)

// Provider is the core abstraction for generative-text interaction.
// Consumers call Generate with a Request and receive the model's raw text.
// Providers make exactly one upstream call per Generate and never retry.
type Provider interface {
	// Generate sends a prompt to the model and returns its textual output.
	// The text carries no structural guarantee; callers own parsing.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Messages is the conversation history. Quiz generation sends one
	// user message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the vendor default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the raw generated text, exactly as returned upstream.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// DefaultMaxTokens bounds responses when a caller leaves MaxTokens unset.
const DefaultMaxTokens = 2048

// GenerateText sends a single user prompt and returns the raw text.
// It fails with *ErrProviderUnavailable on transport errors and
// ErrEmptyResponse when the upstream call succeeds without text.
func GenerateText(ctx context.Context, p Provider, prompt string) (string, error) {
	resp, err := p.Generate(ctx, Request{
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: DefaultMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text, nil
}
