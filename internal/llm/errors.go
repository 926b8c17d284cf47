package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse indicates the upstream call succeeded but returned no text.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// ErrProviderUnavailable indicates the provider is down, unreachable, timed
// out, or refused the request for quota reasons.
type ErrProviderUnavailable struct {
	StatusCode int // upstream HTTP status, 0 when the request never got one
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// IsQuota reports whether the provider rejected the call for rate or quota
// reasons.
func (e *ErrProviderUnavailable) IsQuota() bool {
	return e.StatusCode == 429
}

// unavailable wraps err with the upstream status code.
func unavailable(status int, err error) error {
	return &ErrProviderUnavailable{StatusCode: status, Err: err}
}

// emptyIfBlank returns ErrEmptyResponse when a vendor answered without text.
func emptyIfBlank(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}
	return nil
}
