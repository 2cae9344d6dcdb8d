package normalizer

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// Role is the part a column plays in a bank export.
type Role int

const (
	RoleUnknown Role = iota
	RoleDate
	RoleDescription
	RoleAmount
	RoleDebit
	RoleCredit
)

func (r Role) String() string {
	switch r {
	case RoleDate:
		return "date"
	case RoleDescription:
		return "description"
	case RoleAmount:
		return "amount"
	case RoleDebit:
		return "debit"
	case RoleCredit:
		return "credit"
	default:
		return "unknown"
	}
}

// AmountSource is either one signed amount column or a debit/credit pair.
// Unused indices are -1.
type AmountSource struct {
	Column int
	Debit  int
	Credit int
}

var noAmount = AmountSource{Column: -1, Debit: -1, Credit: -1}

// IsPair reports whether amounts are reconciled from two columns.
func (a AmountSource) IsPair() bool { return a.Column < 0 && a.Debit >= 0 && a.Credit >= 0 }

// Valid reports whether any amount source was found.
func (a AmountSource) Valid() bool { return a.Column >= 0 || a.IsPair() }

// DescriptionSource records which rule selected the description columns.
type DescriptionSource string

const (
	DescriptionsMatched   DescriptionSource = "matched"
	DescriptionsHeuristic DescriptionSource = "heuristic"
	DescriptionsFallback  DescriptionSource = "first-column"
)

// sampleDepth is how many leading non-empty cells the text heuristic inspects.
const sampleDepth = 5

// Plan is the column classification of one table. It is resolved once,
// before any row is read.
type Plan struct {
	Columns           []string // normalized header names
	Date              int      // -1 when missing
	Amount            AmountSource
	Descriptions      []int
	DescriptionSource DescriptionSource
}

// Role returns the role assigned to column col.
func (p *Plan) Role(col int) Role {
	switch {
	case col == p.Date:
		return RoleDate
	case col == p.Amount.Column:
		return RoleAmount
	case col == p.Amount.Debit:
		return RoleDebit
	case col == p.Amount.Credit:
		return RoleCredit
	}
	for _, d := range p.Descriptions {
		if d == col {
			return RoleDescription
		}
	}
	return RoleUnknown
}

// String renders the plan as "name=role" pairs for logging.
func (p *Plan) String() string {
	parts := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		parts[i] = fmt.Sprintf("%s=%s", c, p.Role(i))
	}
	return strings.Join(parts, ", ")
}

func (p *Plan) isDateOrAmount(col int) bool {
	return col == p.Date || col == p.Amount.Column || col == p.Amount.Debit || col == p.Amount.Credit
}

// resolvePlan classifies every column of t. The returned plan is always
// non-nil so callers can inspect a partial mapping alongside the error.
func resolvePlan(t *model.RawTable) (*Plan, error) {
	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = normalizeName(h)
	}

	p := &Plan{Columns: cols, Date: -1, Amount: noAmount}
	p.Date = firstMatch(cols, dateSynonyms, nil)
	p.Amount = findAmountSource(cols, p.Date)
	p.Descriptions, p.DescriptionSource = findDescriptions(t, p)

	if p.Date < 0 {
		return p, &SchemaError{Kind: NoDateColumn, Columns: cols}
	}
	if !p.Amount.Valid() {
		return p, &SchemaError{Kind: NoAmountSource, Columns: cols}
	}
	return p, nil
}

// findAmountSource picks the first amount-like column. A "debit" or
// "credit" header found that way is paired with the first column of the
// opposite side when one exists; otherwise it is read as a signed amount.
// Without any amount-like column, a withdrawal/deposit style pair is used.
func findAmountSource(cols []string, dateCol int) AmountSource {
	notDate := func(i int) bool { return i == dateCol }

	if i := firstMatch(cols, amountSynonyms, notDate); i >= 0 {
		except := func(j int) bool { return j == i || j == dateCol }
		switch {
		case containsAny(cols[i], debitSynonyms):
			if c := firstMatch(cols, creditSynonyms, except); c >= 0 {
				return AmountSource{Column: -1, Debit: i, Credit: c}
			}
		case containsAny(cols[i], creditSynonyms):
			if d := firstMatch(cols, debitSynonyms, except); d >= 0 {
				return AmountSource{Column: -1, Debit: d, Credit: i}
			}
		}
		return AmountSource{Column: i, Debit: -1, Credit: -1}
	}

	debit, credit := -1, -1
	for i, c := range cols {
		if i == dateCol {
			continue
		}
		if containsAny(c, debitSynonyms) {
			if debit < 0 {
				debit = i
			}
		} else if containsAny(c, creditSynonyms) && credit < 0 {
			credit = i
		}
	}
	if debit >= 0 && credit >= 0 {
		return AmountSource{Column: -1, Debit: debit, Credit: credit}
	}
	return noAmount
}

func findDescriptions(t *model.RawTable, p *Plan) ([]int, DescriptionSource) {
	var matched []int
	for i, c := range p.Columns {
		if !p.isDateOrAmount(i) && containsAny(c, descriptionSynonyms) {
			matched = append(matched, i)
		}
	}
	if len(matched) > 0 {
		return matched, DescriptionsMatched
	}

	var textual []int
	for i := range p.Columns {
		if p.isDateOrAmount(i) {
			continue
		}
		if isTextColumn(sampleColumn(t, i, sampleDepth)) {
			textual = append(textual, i)
		}
	}
	if len(textual) > 0 {
		return textual, DescriptionsHeuristic
	}

	if len(p.Columns) == 0 {
		return nil, DescriptionsFallback
	}
	return []int{0}, DescriptionsFallback
}

// sampleColumn returns up to n leading non-empty cells of column col.
func sampleColumn(t *model.RawTable, col, n int) []string {
	var out []string
	for r := 0; r < t.Len() && len(out) < n; r++ {
		v := strings.TrimSpace(t.Cell(r, col))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// isTextColumn reports whether most sampled values are not numeric-looking.
func isTextColumn(sample []string) bool {
	if len(sample) == 0 {
		return false
	}
	text := 0
	for _, v := range sample {
		if !looksNumeric(v) {
			text++
		}
	}
	return text*2 > len(sample)
}
