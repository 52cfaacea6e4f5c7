package categorizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"spendscope/internal/domain"
)

// CleanModelJSON strips Markdown code fences and surrounding junk that models
// sometimes wrap around their JSON output despite instructions not to.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// If there is still junk around the JSON object, keep only from the first
	// '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// DecodeTransactions parses a model's JSON text into transaction records.
// Every record defaults to the purchase type: only the purchase section of a
// statement reaches the model.
func DecodeTransactions(text string) ([]domain.Transaction, error) {
	var parsed struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	clean := CleanModelJSON(text)
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}

	for i := range parsed.Transactions {
		if parsed.Transactions[i].Type == "" {
			parsed.Transactions[i].Type = domain.TransactionTypePurchase
		}
	}
	return parsed.Transactions, nil
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
