package port

import (
	"context"

	"spendscope/internal/domain"
)

// CategorizeInput carries the purchase-section text to categorize.
type CategorizeInput struct {
	StatementText string
}

// CategorizeOutput contains the structured result from an LLM categorizer.
type CategorizeOutput struct {
	Transactions []domain.Transaction
	ModelUsed    string
	PromptUsed   string
}

// Categorizer abstracts LLM-based transaction categorization.
type Categorizer interface {
	Categorize(ctx context.Context, input CategorizeInput) (*CategorizeOutput, error)
}
