package categorizer

import (
	"strings"

	"spendscope/internal/domain"
)

// BuildExpensePrompt returns the categorization prompt for the purchase
// section of a credit-card statement. The model must return strict JSON with
// a "transactions" array; every statement row must be kept and labeled with
// one of the fixed categories, falling back to "Other".
func BuildExpensePrompt(statementText string) string {
	var b strings.Builder
	b.WriteString(`You are an expert at analyzing credit card statements and categorizing expenses.
Given the following credit card statement text, please:

1. Extract all transactions with their dates, descriptions, and amounts
2. Categorize each transaction into one of these categories:
`)
	for _, category := range domain.Categories {
		b.WriteString("   - ")
		b.WriteString(category)
		b.WriteString("\n")
	}
	b.WriteString(`
Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.
The JSON object must have a single top-level key "transactions" holding an array of objects, each with these fields:

    "date": "YYYY-MM-DD",
    "description": "Transaction description",
    "amount": float,
    "category": "Category name"

If you don't know how to categorize a transaction, use "Other". Do not make up a category
and do not skip any transactions.

Here is the credit card statement text:

`)
	b.WriteString(statementText)
	return b.String()
}
