package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"spendscope/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// transactionColumns defines the CSV header row for the transaction section.
var transactionColumns = []string{
	"Date",
	"Description",
	"Amount",
	"Category",
}

// Writer wraps csv.Writer for exporting an analysis as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAnalysis writes the transaction rows followed by a blank row and a
// per-category totals section. Categories are sorted for a stable layout.
func (w *Writer) WriteAnalysis(a *domain.Analysis) error {
	if err := w.csv.Write(transactionColumns); err != nil {
		return err
	}
	for _, tx := range a.Transactions {
		row := []string{
			tx.Date,
			tx.Description,
			formatMoney(tx.Amount),
			tx.Category,
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}

	if err := w.csv.Write([]string{}); err != nil {
		return err
	}
	if err := w.csv.Write([]string{"Category", "Total"}); err != nil {
		return err
	}
	for _, category := range sortedCategories(a.SpendByCategory) {
		row := []string{category, formatMoney(a.SpendByCategory[category])}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func sortedCategories(totals domain.CategoryTotals) []string {
	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
