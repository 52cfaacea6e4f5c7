// Package report reduces categorized transactions into per-category spend
// totals and renders analyses as downloadable reports.
package report

import "spendscope/internal/domain"

// Aggregate sums transaction amounts per category label. Labels are accepted
// verbatim; unseen categories start at zero. The result is independent of
// input order up to floating-point rounding.
func Aggregate(transactions []domain.Transaction) domain.CategoryTotals {
	totals := make(domain.CategoryTotals, len(transactions))
	for _, tx := range transactions {
		totals[tx.Category] += tx.Amount
	}
	return totals
}
