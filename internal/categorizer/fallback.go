package categorizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"spendscope/internal/port"
)

// circuitState tracks rate-limit backoff for a single categorizer.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackCategorizer tries categorizers in order, skipping those with open
// circuits. It implements port.Categorizer.
type FallbackCategorizer struct {
	categorizers []port.Categorizer
	circuits     []*circuitState
	names        []string
}

// NewFallbackCategorizer creates a FallbackCategorizer from an ordered list
// of categorizers and their names.
func NewFallbackCategorizer(categorizers []port.Categorizer, names []string) *FallbackCategorizer {
	circuits := make([]*circuitState, len(categorizers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackCategorizer{
		categorizers: categorizers,
		circuits:     circuits,
		names:        names,
	}
}

func (f *FallbackCategorizer) Categorize(ctx context.Context, input port.CategorizeInput) (*port.CategorizeOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, c := range f.categorizers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("categorizer.FallbackCategorizer: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := c.Categorize(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Printf("categorizer.FallbackCategorizer: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		// Every provider was skipped or rate limited.
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, &RateLimitError{
			Provider:   "all",
			RetryAfter: retryAfter,
			Err:        fmt.Errorf("all categorizers rate limited"),
		}
	}

	return nil, fmt.Errorf("all categorizers failed: %w", lastErr)
}
