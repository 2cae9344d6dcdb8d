// Package analytics computes the spending summaries the advisor agent and
// the report command present. All functions are pure over a slice of
// transactions.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// Uncategorized labels transactions whose Category is empty.
const Uncategorized = "Uncategorized"

const dateLayout = "2006-01-02"

func categoryOf(t model.Transaction) string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}

// Summary is the overview returned by the query_transactions tool.
type Summary struct {
	TotalTransactions int             `json:"total_transactions"`
	From              string          `json:"from"`
	To                string          `json:"to"`
	TotalSpent        decimal.Decimal `json:"total_spent"`  // sum of expenses, positive
	TotalIncome       decimal.Decimal `json:"total_income"` // sum of income
	Net               decimal.Decimal `json:"net"`
	Categories        map[string]int  `json:"categories"` // transaction count per category
}

// Summarize totals txns.
func Summarize(txns []model.Transaction) Summary {
	s := Summary{
		TotalTransactions: len(txns),
		Categories:        map[string]int{},
	}
	var first, last time.Time
	for i, t := range txns {
		if i == 0 || t.Date.Before(first) {
			first = t.Date
		}
		if i == 0 || t.Date.After(last) {
			last = t.Date
		}
		switch {
		case t.IsExpense():
			s.TotalSpent = s.TotalSpent.Add(t.Amount.Neg())
		case t.IsIncome():
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		}
		s.Categories[categoryOf(t)]++
	}
	if len(txns) > 0 {
		s.From = first.Format(dateLayout)
		s.To = last.Format(dateLayout)
	}
	s.Net = s.TotalIncome.Sub(s.TotalSpent)
	return s
}

// CategoryTotal is the expense aggregate of one category. Sum and Mean are
// positive spend.
type CategoryTotal struct {
	Category string          `json:"category"`
	Sum      decimal.Decimal `json:"sum"`
	Count    int             `json:"count"`
	Mean     decimal.Decimal `json:"mean"`
}

// CategoryTotals aggregates expenses per category, largest spend first.
func CategoryTotals(txns []model.Transaction) []CategoryTotal {
	idx := map[string]int{}
	var out []CategoryTotal
	for _, t := range model.Expenses(txns) {
		cat := categoryOf(t)
		i, ok := idx[cat]
		if !ok {
			i = len(out)
			idx[cat] = i
			out = append(out, CategoryTotal{Category: cat})
		}
		out[i].Sum = out[i].Sum.Add(t.Amount.Neg())
		out[i].Count++
	}
	for i := range out {
		out[i].Mean = out[i].Sum.Div(decimal.NewFromInt(int64(out[i].Count))).Round(2)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Sum.Cmp(out[j].Sum); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// RecentTransaction is a compact transaction view for tool output.
type RecentTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CategoryDetail describes the expenses of a single category.
type CategoryDetail struct {
	Category           string              `json:"category"`
	TotalSpent         decimal.Decimal     `json:"total_spent"`
	TransactionCount   int                 `json:"transaction_count"`
	AverageTransaction decimal.Decimal     `json:"average_transaction"`
	Recent             []RecentTransaction `json:"recent_transactions"` // most recent first, at most 5
}

const recentLimit = 5

// CategorySpending reports on the expenses of category, matched
// case-insensitively. ok is false when the category has no expenses.
func CategorySpending(txns []model.Transaction, category string) (detail CategoryDetail, ok bool) {
	var matched []model.Transaction
	for _, t := range model.Expenses(txns) {
		if strings.EqualFold(categoryOf(t), strings.TrimSpace(category)) {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return CategoryDetail{}, false
	}

	detail = CategoryDetail{Category: categoryOf(matched[0]), TransactionCount: len(matched)}
	for _, t := range matched {
		detail.TotalSpent = detail.TotalSpent.Add(t.Amount.Neg())
	}
	detail.AverageTransaction = detail.TotalSpent.Div(decimal.NewFromInt(int64(len(matched)))).Round(2)

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	for _, t := range matched[:min(recentLimit, len(matched))] {
		detail.Recent = append(detail.Recent, RecentTransaction{
			Date:        t.Date.Format(dateLayout),
			Description: t.Description,
			Amount:      t.Amount,
		})
	}
	return detail, true
}
