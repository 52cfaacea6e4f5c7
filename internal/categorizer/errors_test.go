package categorizer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimitError(t *testing.T) {
	base := errors.New("status 429")
	err := NewRateLimitError("openai", base, "30")

	assert.Equal(t, "openai", err.Provider)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "openai rate limited")
}

func TestNewRateLimitError_RetryAfterHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"delta seconds", "45", 45 * time.Second},
		{"missing header", "", time.Minute},
		{"http date form", "Wed, 21 Oct 2015 07:28:00 GMT", time.Minute},
		{"zero", "0", time.Minute},
		{"negative", "-5", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitError("claude", errors.New("x"), tt.header)
			assert.Equal(t, tt.want, err.RetryAfter)
		})
	}
}

func TestRateLimitError_As(t *testing.T) {
	var target *RateLimitError
	wrapped := NewRateLimitError("gemini", errors.New("x"), "10")
	require.ErrorAs(t, error(wrapped), &target)
	assert.Equal(t, "gemini", target.Provider)
}
