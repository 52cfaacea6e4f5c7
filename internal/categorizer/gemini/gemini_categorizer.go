package gemini

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
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	maxOutputTokens = 8192
)

// Categorizer implements port.Categorizer using Google's Gemini API.
type Categorizer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewCategorizer creates a Gemini-based categorizer.
func NewCategorizer(cfg *config.CategorizerProviderConfig) *Categorizer {
	return newCategorizer(cfg, "")
}

// NewCategorizerWithEndpoint creates a categorizer pointing at a custom API endpoint (for testing).
func NewCategorizerWithEndpoint(cfg *config.CategorizerProviderConfig, endpoint string) *Categorizer {
	return newCategorizer(cfg, endpoint)
}

func newCategorizer(cfg *config.CategorizerProviderConfig, endpoint string) *Categorizer {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  maxOutputTokens,
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
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, categorizer.NewRateLimitError("gemini", baseErr, resp.Header.Get("Retry-After"))
		}
		return nil, baseErr
	}

	return parseResponse(respBody, c.model, prompt)
}

// apiResponse models the Gemini generateContent API response.
type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model, prompt string) (*port.CategorizeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == "MAX_TOKENS" {
		return nil, fmt.Errorf("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text = part.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty response from API: no text parts")
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
