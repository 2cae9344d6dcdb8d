package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a canonical bank transaction produced by the normalizer.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    string          // empty until categorized
	Source      string          // file name or feed the row came from
}

// IsExpense reports whether money left the account.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// IsIncome reports whether money entered the account.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// Expenses returns the transactions with a negative amount, in input order.
func Expenses(txns []Transaction) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}
