package quizgen

import (
	"errors"
	"fmt"

	"github.com/abhisek/notequiz/internal/llm"
	"github.com/abhisek/notequiz/internal/store"
)

// ErrMalformedResponse is matched by every error raised when provider output
// is not a usable list of questions.
var ErrMalformedResponse = errors.New("malformed response")

// ErrEmptyNote is returned when a note has a blank title or content.
var ErrEmptyNote = errors.New("note title and content must not be empty")

// MalformedError carries the detail behind ErrMalformedResponse.
type MalformedError struct {
	Detail string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Detail)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedResponse }

// InvalidQuestionError reports the first question that broke the contract.
type InvalidQuestionError struct {
	Index  int // 0-based position in the provider's list
	Reason string
	Err    error
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("invalid question at index %d: %s", e.Index, e.Reason)
}

func (e *InvalidQuestionError) Unwrap() error { return e.Err }

// Error kinds reported by Kind.
const (
	KindProviderUnavailable = "provider_unavailable"
	KindEmptyResponse       = "empty_response"
	KindMalformedResponse   = "malformed_response"
	KindInvalidQuestion     = "invalid_question"
	KindInvalidNote         = "invalid_note"
	KindPersistence         = "persistence_error"
	KindUnknown             = "unknown"
)

// Kind classifies a generation error for logs, metrics and API bodies.
// It returns "" for a nil error.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var unavail *llm.ErrProviderUnavailable
	var invalid *InvalidQuestionError
	var persist *store.PersistenceError

	switch {
	case errors.As(err, &invalid):
		return KindInvalidQuestion
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, llm.ErrEmptyResponse):
		return KindEmptyResponse
	case errors.As(err, &unavail):
		return KindProviderUnavailable
	case errors.Is(err, ErrEmptyNote):
		return KindInvalidNote
	case errors.As(err, &persist):
		return KindPersistence
	default:
		return KindUnknown
	}
}
