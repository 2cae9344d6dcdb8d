package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finadvisor/internal/model"
)

var (
	recurringMin = decimal.NewFromInt(5)
	recurringMax = decimal.NewFromInt(50)
)

const topCategories = 5

// CategoryAmount pairs a category with a positive spend.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// RecurringCharge is a small expense seen more than once with the same
// description.
type RecurringCharge struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// SavingsReport points at where spending could be cut.
type SavingsReport struct {
	TopCategories    []CategoryAmount  `json:"top_spending_categories"`
	RecurringCharges []RecurringCharge `json:"potential_subscriptions"`
	MonthlyAverage   decimal.Decimal   `json:"monthly_average"` // positive spend per calendar month with expenses
}

// SavingsOpportunities finds the heaviest categories, likely subscriptions
// (5 < |amount| < 50, repeated) and the average monthly spend.
func SavingsOpportunities(txns []model.Transaction) SavingsReport {
	var r SavingsReport
	for _, ct := range CategoryTotals(txns) {
		if len(r.TopCategories) == topCategories {
			break
		}
		r.TopCategories = append(r.TopCategories, CategoryAmount{Category: ct.Category, Amount: ct.Sum})
	}

	expenses := model.Expenses(txns)
	counts := map[string]int{}
	var order []string
	months := map[string]bool{}
	total := decimal.Zero
	for _, t := range expenses {
		total = total.Add(t.Amount.Neg())
		months[t.Date.Format("2006-01")] = true

		abs := t.Amount.Abs()
		if abs.GreaterThan(recurringMin) && abs.LessThan(recurringMax) {
			if counts[t.Description] == 0 {
				order = append(order, t.Description)
			}
			counts[t.Description]++
		}
	}
	for _, d := range order {
		if counts[d] > 1 {
			r.RecurringCharges = append(r.RecurringCharges, RecurringCharge{Description: d, Count: counts[d]})
		}
	}
	sort.SliceStable(r.RecurringCharges, func(i, j int) bool {
		return r.RecurringCharges[i].Count > r.RecurringCharges[j].Count
	})

	if len(months) > 0 {
		r.MonthlyAverage = total.Div(decimal.NewFromInt(int64(len(months)))).Round(2)
	}
	return r
}
