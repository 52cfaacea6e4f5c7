package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spendscope/internal/categorizer"
	"spendscope/internal/config"
	"spendscope/internal/domain"
	"spendscope/internal/port"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"

	systemMessage = "You are a financial statement analyzer that returns only valid JSON."
)

// Categorizer implements port.Categorizer using the OpenAI Chat Completions API.
type Categorizer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewCategorizer creates an OpenAI-based categorizer from a provider config.
func NewCategorizer(cfg *config.CategorizerProviderConfig) *Categorizer {
	return newCategorizer(cfg, apiURL)
}

// NewCategorizerWithEndpoint creates a categorizer pointing at a custom API endpoint (for testing).
func NewCategorizerWithEndpoint(cfg *config.CategorizerProviderConfig, endpoint string) *Categorizer {
	return newCategorizer(cfg, endpoint)
}

func newCategorizer(cfg *config.CategorizerProviderConfig, endpoint string) *Categorizer {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Categorizer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Categorizer) Categorize(ctx context.Context, input port.CategorizeInput) (*port.CategorizeOutput, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	prompt := categorizer.BuildExpensePrompt(input.StatementText)

	reqBody := map[string]interface{}{
		"model":       c.model,
		"temperature": 0.1,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": systemMessage,
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, categorizer.NewRateLimitError("openai", baseErr, resp.Header.Get("Retry-After"))
		}
		return nil, baseErr
	}

	return parseResponse(respBody, c.model, prompt)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model, prompt string) (*port.CategorizeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	transactions, err := categorizer.DecodeTransactions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &port.CategorizeOutput{
		Transactions: transactions,
		ModelUsed:    model,
		PromptUsed:   prompt,
	}, nil
}
