package openai_test

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
	"spendscope/internal/categorizer/openai"
	"spendscope/internal/config"
	"spendscope/internal/domain"
	"spendscope/internal/port"
)

func newTestCategorizer(serverURL string) *openai.Categorizer {
	cfg := &config.CategorizerProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewCategorizerWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestCategorize_Success(t *testing.T) {
	llmJSON := `{"transactions":[{"date":"2025-01-03","description":"COFFEE SHOP","amount":4.5,"category":"Food & Dining"}]}`
	responseBody := successResponse(llmJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify auth header
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Verify request body
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, 0.1, reqBody["temperature"])

		respFormat := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_object", respFormat["type"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		user := messages[1].(map[string]interface{})
		assert.Equal(t, "user", user["role"])
		// The prompt embeds the statement text and the taxonomy.
		assert.Contains(t, user["content"], "PURCHASE 01/03 COFFEE SHOP 4.50")
		assert.Contains(t, user["content"], "Food & Dining")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)

	result, err := c.Categorize(context.Background(), port.CategorizeInput{
		StatementText: "PURCHASE 01/03 COFFEE SHOP 4.50",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.NotEmpty(t, result.PromptUsed)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "COFFEE SHOP", result.Transactions[0].Description)
	assert.Equal(t, domain.TransactionTypePurchase, result.Transactions[0].Type)
}

func TestCategorize_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit"}`))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	var rl *categorizer.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "openai", rl.Provider)
	assert.Equal(t, 30*time.Second, rl.RetryAfter)
}

func TestCategorize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"server error"}`))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCategorize_TruncatedOutput(t *testing.T) {
	body := successResponse("{")
	body["choices"].([]map[string]interface{})[0]["finish_reason"] = "length"

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

func TestCategorize_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCategorize_MissingAPIKey(t *testing.T) {
	c := openai.NewCategorizerWithEndpoint(&config.CategorizerProviderConfig{Provider: "openai"}, "http://unused")
	_, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestCategorize_FencedModelOutput(t *testing.T) {
	fenced := "```json\n{\"transactions\":[{\"date\":\"2025-01-03\",\"description\":\"X\",\"amount\":1,\"category\":\"Other\"}]}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(fenced))
	}))
	defer server.Close()

	c := newTestCategorizer(server.URL)
	result, err := c.Categorize(context.Background(), port.CategorizeInput{StatementText: "x"})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
}
