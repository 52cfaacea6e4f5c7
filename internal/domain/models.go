package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a single categorized statement entry as returned by the
// categorization model.
type Transaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type,omitempty"`
}

// CategoryTotals maps a category label to the summed amount of all
// transactions carrying that label. Keys are unique; iteration order carries
// no meaning.
type CategoryTotals map[string]float64

// Analysis is the result of running one statement through the full pipeline.
type Analysis struct {
	ID              uuid.UUID      `json:"id"`
	FileName        string         `json:"file_name"`
	PageCount       int            `json:"page_count"`
	Transactions    []Transaction  `json:"transactions"`
	SpendByCategory CategoryTotals `json:"spend_by_category"`
	ModelUsed       string         `json:"model_used,omitempty"`
	AnalyzedAt      time.Time      `json:"analyzed_at"`
}
