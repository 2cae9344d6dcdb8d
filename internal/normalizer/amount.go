package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountStripper = func() *strings.Replacer {
	pairs := []string{",", "", " ", "", "\u00a0", ""}
	for _, sym := range currencySymbols {
		pairs = append(pairs, sym, "")
	}
	return strings.NewReplacer(pairs...)
}()

var parenStripper = strings.NewReplacer("(", "", ")", "")

// ParseAmount cleans a bank amount cell and parses it as a decimal.
// Currency symbols, thousands separators and spaces are removed, and a value
// wrapped in parentheses is negative. ok is false for empty or non-numeric
// cells.
func ParseAmount(cell string) (amount decimal.Decimal, ok bool) {
	s := amountStripper.Replace(strings.TrimSpace(cell))
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		s = "-" + parenStripper.Replace(s)
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CleanAmount is ParseAmount with unparseable cells read as zero.
func CleanAmount(cell string) decimal.Decimal {
	d, _ := ParseAmount(cell)
	return d
}

// reconcile turns a debit/credit cell pair into one signed amount. Debit
// wins when both sides are nonzero.
func reconcile(debitCell, creditCell string) decimal.Decimal {
	debit := CleanAmount(debitCell)
	if !debit.IsZero() {
		return debit.Abs().Neg()
	}
	credit := CleanAmount(creditCell)
	if !credit.IsZero() {
		return credit.Abs()
	}
	return decimal.Zero
}

// looksNumeric reports whether v is a bare integer or decimal, allowing a
// single comma as the decimal separator.
func looksNumeric(v string) bool {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}
