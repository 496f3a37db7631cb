package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedAttachment: the provider cannot read the attached
// document type.
var ErrUnsupportedAttachment = errors.New("attachment type not supported by this provider")

// ErrRateLimit is an HTTP 429. RetryAfter is zero when the provider gave
// no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("LLM rate limit, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("LLM rate limit: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse carries a reply that did not match the request's
// schema, kept for the event log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return fmt.Sprintf("LLM reply rejected: %v", e.Err) }

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, 5xx and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unreachable"
	}
	return "LLM provider unreachable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means a structured reply was cut off at
// Request.MaxTokens. Content holds the partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "LLM reply cut off at the token limit" }

// Transient reports whether retrying err could succeed. Only rate limits,
// outages and unclassified transport errors qualify.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var (
		cut *ErrMaxTokensExceeded
		bad *ErrInvalidResponse
	)
	for _, permanent := range []error{context.Canceled, context.DeadlineExceeded, ErrUnsupportedAttachment, ErrUnauthorized} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return !errors.As(err, &cut) && !errors.As(err, &bad)
}
