package categorizer

import (
	"fmt"
	"strconv"
	"time"
)

// defaultRetryAfter is the circuit-open window used when a provider answers
// 429 without a usable Retry-After header.
const defaultRetryAfter = time.Minute

// RateLimitError reports that a categorizer provider refused the statement
// with HTTP 429. RetryAfter tells the fallback chain how long to keep that
// provider's circuit open before routing statements to it again; Provider is
// the name the circuit is keyed on ("all" when every provider in the chain
// is limited).
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, circuit open for %s: %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NewRateLimitError builds a RateLimitError from a provider's 429 response.
// retryAfterHeader is the raw Retry-After value; only the delta-seconds form
// is honored, anything else (empty, HTTP-date, zero) falls back to the
// one-minute default window.
func NewRateLimitError(provider string, err error, retryAfterHeader string) *RateLimitError {
	retryAfter := defaultRetryAfter
	if secs, convErr := strconv.Atoi(retryAfterHeader); convErr == nil && secs > 0 {
		retryAfter = time.Duration(secs) * time.Second
	}
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: retryAfter,
		Err:        err,
	}
}
