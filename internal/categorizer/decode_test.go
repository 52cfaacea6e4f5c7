package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/internal/domain"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"plain object",
			`{"transactions":[]}`,
			`{"transactions":[]}`,
		},
		{
			"json code fence",
			"```json\n{\"transactions\":[]}\n```",
			`{"transactions":[]}`,
		},
		{
			"bare code fence",
			"```\n{\"transactions\":[]}\n```",
			`{"transactions":[]}`,
		},
		{
			"prose around the object",
			"Here is the result:\n{\"transactions\":[]}\nHope that helps!",
			`{"transactions":[]}`,
		},
		{
			"leading and trailing whitespace",
			"  \n{\"transactions\":[]}\n  ",
			`{"transactions":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanModelJSON(tt.raw))
		})
	}
}

func TestDecodeTransactions(t *testing.T) {
	text := `{"transactions":[
		{"date":"2025-01-03","description":"COFFEE SHOP","amount":4.5,"category":"Food & Dining"},
		{"date":"2025-01-05","description":"REFUND","amount":-12.00,"category":"Shopping"}
	]}`

	txs, err := DecodeTransactions(text)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "COFFEE SHOP", txs[0].Description)
	assert.InDelta(t, 4.5, txs[0].Amount, 0.005)
	assert.Equal(t, "Food & Dining", txs[0].Category)
	assert.Equal(t, domain.TransactionTypePurchase, txs[0].Type)
	assert.InDelta(t, -12.00, txs[1].Amount, 0.005)
}

func TestDecodeTransactions_Fenced(t *testing.T) {
	text := "```json\n{\"transactions\":[{\"date\":\"2025-01-03\",\"description\":\"X\",\"amount\":1,\"category\":\"Other\"}]}\n```"

	txs, err := DecodeTransactions(text)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Other", txs[0].Category)
}

func TestDecodeTransactions_InvalidJSON(t *testing.T) {
	_, err := DecodeTransactions("not json at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing model JSON output")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefghij", 5))
}
