// Package normalizer maps arbitrary bank-export tables onto canonical
// {date, description, amount} transactions without prior knowledge of the
// bank's schema.
//
// Normalization is a pure function of its input: it holds no state between
// calls and is safe to run concurrently on independent tables.
package normalizer

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// UnknownDescription is used when no description column yields a value.
const UnknownDescription = "Unknown Transaction"

const descriptionSeparator = " | "

var errEmptyDate = errors.New("empty date")

// Result is a canonical table plus bookkeeping about dropped rows.
type Result struct {
	Transactions []model.Transaction // sorted by date, most recent first
	Plan         *Plan
	InputRows    int
	SkippedRows  int // rows dropped for an unparseable date
}

// Normalize converts t into canonical transactions. It fails with a
// *SchemaError when no date column or no amount source can be identified.
// Rows with an unparseable date are dropped and counted, never reported as
// errors.
func Normalize(t *model.RawTable) (*Result, error) {
	if t == nil {
		t = &model.RawTable{}
	}
	plan, err := resolvePlan(t)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Transactions: make([]model.Transaction, 0, t.Len()),
		Plan:         plan,
		InputRows:    t.Len(),
	}
	for r := 0; r < t.Len(); r++ {
		date, err := ParseDate(t.Cell(r, plan.Date))
		if err != nil {
			res.SkippedRows++
			continue
		}
		res.Transactions = append(res.Transactions, model.Transaction{
			Date:        date,
			Description: plan.description(t, r),
			Amount:      plan.amount(t, r),
		})
	}

	sort.SliceStable(res.Transactions, func(i, j int) bool {
		return res.Transactions[i].Date.After(res.Transactions[j].Date)
	})
	return res, nil
}

// ParseDate parses a date cell in any common layout and truncates it to a
// calendar date in UTC. Slashed dates are read month first; a day-first date
// is only recognised when the month-first reading is out of range.
func ParseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	t, err := dateparse.ParseIn(s, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (p *Plan) amount(t *model.RawTable, row int) decimal.Decimal {
	if p.Amount.IsPair() {
		return reconcile(t.Cell(row, p.Amount.Debit), t.Cell(row, p.Amount.Credit))
	}
	return CleanAmount(t.Cell(row, p.Amount.Column))
}

func (p *Plan) description(t *model.RawTable, row int) string {
	var parts []string
	for _, col := range p.Descriptions {
		v := strings.TrimSpace(t.Cell(row, col))
		switch strings.ToLower(v) {
		case "", "nan", "none":
			continue
		}
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return UnknownDescription
	}
	return strings.Join(parts, descriptionSeparator)
}

// Mapping describes which source columns feed each canonical field.
type Mapping struct {
	DateColumn         string
	AmountColumn       string // empty when a debit/credit pair is used
	DebitColumn        string
	CreditColumn       string
	DescriptionColumns []string
	DescriptionSource  DescriptionSource
	AllColumns         []string
	SampleRow          map[string]string
}

// Preview reports the column mapping Normalize would use without building
// any rows. The mapping is filled in as far as possible even when err is a
// *SchemaError.
func Preview(t *model.RawTable) (*Mapping, error) {
	if t == nil {
		t = &model.RawTable{}
	}
	plan, err := resolvePlan(t)

	name := func(col int) string {
		if col < 0 || col >= len(plan.Columns) {
			return ""
		}
		return plan.Columns[col]
	}

	m := &Mapping{
		DateColumn:        name(plan.Date),
		AmountColumn:      name(plan.Amount.Column),
		DebitColumn:       name(plan.Amount.Debit),
		CreditColumn:      name(plan.Amount.Credit),
		DescriptionSource: plan.DescriptionSource,
		AllColumns:        plan.Columns,
		SampleRow:         map[string]string{},
	}
	for _, col := range plan.Descriptions {
		m.DescriptionColumns = append(m.DescriptionColumns, name(col))
	}
	if t.Len() > 0 {
		for i, c := range plan.Columns {
			m.SampleRow[c] = t.Cell(0, i)
		}
	}
	return m, err
}
