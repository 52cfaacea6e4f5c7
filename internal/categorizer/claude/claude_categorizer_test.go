package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/internal/categorizer"
	"spendscope/internal/categorizer/claude"
	"spendscope/internal/config"
	"spendscope/internal/domain"
	"spendscope/internal/port"
)

func newTestCategorizer(serverURL string) *claude.Categorizer {
	cfg := &config.CategorizerProviderConfig{
		Provider:     "claude",
		APIKey:       "test-claude-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewCategorizerWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
	}
}

func TestCategorize_Success(t *testing.T) {
	llmJSON := `{"transactions":[{"date":"2025-02-10","description":"GROCERY MART","amount":82.19,"category":"Groceries"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, float64(8192), reqBody["max_tokens"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		user := messages[0].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		assert.Contains(t, user["content"], "PURCHASE 02/10 GROCERY MART 82.19")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)

	result, err := c.Categorize(context.Background(), port.CategorizeInput{
		StatementText: "PURCHASE 02/10 GROCERY MART 82.19",
	})

	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", result.ModelUsed)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "GROCERY MART", result.Transactions[0].Description)
	assert.InDelta(t, 82.19, result.Transactions[0].Amount, 0.005)
}

func TestCategorize_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "10")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	var rl *categorizer.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "claude", rl.Provider)
	assert.Equal(t, 10*time.Second, rl.RetryAfter)
}

func TestCategorize_TruncatedOutput(t *testing.T) {
	body := successResponse("{")
	body["stop_reason"] = "max_tokens"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "output truncated")
}

func TestCategorize_NoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestCategorize_MissingAPIKey(t *testing.T) {
	c := claude.NewCategorizerWithEndpoint(&config.CategorizerProviderConfig{Provider: "claude"}, "http://unused")
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
}
