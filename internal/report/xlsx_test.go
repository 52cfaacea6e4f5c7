package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleAnalysis()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ElementsMatch(t, []string{transactionsSheet, totalsSheet}, f.GetSheetList())

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Category"}, rows[0])
	assert.Equal(t, "COFFEE SHOP", rows[1][1])
	assert.Equal(t, "Food & Dining", rows[1][3])

	totals, err := f.GetRows(totalsSheet)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, []string{"Category", "Total"}, totals[0])
	assert.Equal(t, "Food & Dining", totals[1][0])
	assert.Equal(t, "15.75", totals[1][1])
	assert.Equal(t, "Shopping", totals[2][0])
	assert.Equal(t, "20", totals[2][1])
}
