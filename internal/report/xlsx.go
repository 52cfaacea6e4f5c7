package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"spendscope/internal/domain"
)

const (
	transactionsSheet = "Transactions"
	totalsSheet       = "Totals"
)

// WriteXLSX renders the analysis as an Excel workbook with a transaction
// sheet and a per-category totals sheet.
func WriteXLSX(w io.Writer, a *domain.Analysis) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	for col, header := range transactionColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(transactionsSheet, cell, header); err != nil {
			return err
		}
	}
	for i, tx := range a.Transactions {
		row := i + 2
		values := []interface{}{tx.Date, tx.Description, round2(tx.Amount), tx.Category}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(transactionsSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("creating totals sheet: %w", err)
	}
	if err := f.SetCellValue(totalsSheet, "A1", "Category"); err != nil {
		return err
	}
	if err := f.SetCellValue(totalsSheet, "B1", "Total"); err != nil {
		return err
	}
	for i, category := range sortedCategories(a.SpendByCategory) {
		row := i + 2
		if err := f.SetCellValue(totalsSheet, fmt.Sprintf("A%d", row), category); err != nil {
			return err
		}
		if err := f.SetCellValue(totalsSheet, fmt.Sprintf("B%d", row), round2(a.SpendByCategory[category])); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
