package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finadvisor/internal/model"
)

const (
	daysPerMonth     = 30
	changedTopN      = 3
	percentPrecision = 1
)

// CategoryChange is the spend difference of one category between periods.
type CategoryChange struct {
	Category string          `json:"category"`
	Change   decimal.Decimal `json:"change"` // positive when spending grew
}

// PeriodComparison compares expenses in the last 30*Months days with the
// window of equal length before it. Totals are positive spend.
type PeriodComparison struct {
	Months        int              `json:"months"`
	CurrentStart  string           `json:"current_start"`
	PreviousStart string           `json:"previous_start"`
	CurrentTotal  decimal.Decimal  `json:"current_period_total"`
	PreviousTotal decimal.Decimal  `json:"previous_period_total"`
	Change        decimal.Decimal  `json:"change"`
	PercentChange decimal.Decimal  `json:"percent_change"` // 0 when the previous period is empty
	Increased     []CategoryChange `json:"categories_increased"`
	Decreased     []CategoryChange `json:"categories_decreased"`
}

// ComparePeriods compares spending windows ending at now. months below 1 is
// treated as 1.
func ComparePeriods(txns []model.Transaction, months int, now time.Time) PeriodComparison {
	if months < 1 {
		months = 1
	}
	window := time.Duration(daysPerMonth*months) * 24 * time.Hour
	currentStart := now.Add(-window)
	previousStart := currentStart.Add(-window)

	pc := PeriodComparison{
		Months:        months,
		CurrentStart:  currentStart.Format(dateLayout),
		PreviousStart: previousStart.Format(dateLayout),
	}
	cur := map[string]decimal.Decimal{}
	prev := map[string]decimal.Decimal{}
	var cats []string
	seen := map[string]bool{}

	for _, t := range model.Expenses(txns) {
		spend := t.Amount.Neg()
		cat := categoryOf(t)
		switch {
		case !t.Date.Before(currentStart):
			pc.CurrentTotal = pc.CurrentTotal.Add(spend)
			cur[cat] = cur[cat].Add(spend)
		case !t.Date.Before(previousStart):
			pc.PreviousTotal = pc.PreviousTotal.Add(spend)
			prev[cat] = prev[cat].Add(spend)
		default:
			continue
		}
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}

	pc.Change = pc.CurrentTotal.Sub(pc.PreviousTotal)
	if !pc.PreviousTotal.IsZero() {
		pc.PercentChange = pc.Change.Div(pc.PreviousTotal).Mul(decimal.NewFromInt(100)).Round(percentPrecision)
	}

	var changes []CategoryChange
	for _, cat := range cats {
		changes = append(changes, CategoryChange{Category: cat, Change: cur[cat].Sub(prev[cat])})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Change.GreaterThan(changes[j].Change) })
	for _, c := range changes {
		if c.Change.IsPositive() && len(pc.Increased) < changedTopN {
			pc.Increased = append(pc.Increased, c)
		}
	}
	for i := len(changes) - 1; i >= 0; i-- {
		if changes[i].Change.IsNegative() && len(pc.Decreased) < changedTopN {
			pc.Decreased = append(pc.Decreased, changes[i])
		}
	}
	return pc
}
