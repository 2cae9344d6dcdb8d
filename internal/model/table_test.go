package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRawTableCell(t *testing.T) {
	tbl := NewRawTable([]string{"Date", "Memo", "Amount"}, [][]string{
		{"2024-01-05", "COFFEE", "-4.50"},
		{"2024-01-06"},
	})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "COFFEE", tbl.Cell(0, 1))
	assert.Equal(t, "", tbl.Cell(1, 2), "ragged row reads as empty")
	assert.Equal(t, "", tbl.Cell(5, 0))
	assert.Equal(t, "", tbl.Cell(0, -1))
}

func TestFromRecords(t *testing.T) {
	tbl := FromRecords([]string{"Post Date", "Memo"}, []map[string]string{
		{"Post Date": "2024-01-05", "Memo": "WHOLE FOODS"},
		{"Post Date": "2024-01-01"},
	})

	assert.Equal(t, []string{"2024-01-05", "WHOLE FOODS"}, tbl.Rows[0])
	assert.Equal(t, []string{"2024-01-01", ""}, tbl.Rows[1])
	assert.Equal(t, map[string]string{"Post Date": "2024-01-01", "Memo": ""}, tbl.Record(1))
}

func TestExpenses(t *testing.T) {
	txns := []Transaction{
		{Description: "rent", Amount: decimal.RequireFromString("-1200")},
		{Description: "salary", Amount: decimal.RequireFromString("3500")},
		{Description: "zero", Amount: decimal.Zero},
	}

	got := Expenses(txns)
	assert.Len(t, got, 1)
	assert.Equal(t, "rent", got[0].Description)
	assert.True(t, got[0].IsExpense())
	assert.True(t, txns[1].IsIncome())
	assert.False(t, txns[2].IsIncome())
}
