package claude

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
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	maxTokens = 8192
)

// Categorizer implements port.Categorizer using the Anthropic Messages API.
type Categorizer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewCategorizer creates a Claude-based categorizer from a provider config.
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
		model = "claude-sonnet-4-20250514"
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
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
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
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, categorizer.NewRateLimitError("claude", baseErr, resp.Header.Get("Retry-After"))
		}
		return nil, baseErr
	}

	return parseResponse(respBody, c.model, prompt)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model, prompt string) (*port.CategorizeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty response from API: no text content")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	transactions, err := categorizer.DecodeTransactions(text)
	if err != nil {
		return nil, err
	}

	return &port.CategorizeOutput{
		Transactions: transactions,
		ModelUsed:    model,
		PromptUsed:   prompt,
	}, nil
}
