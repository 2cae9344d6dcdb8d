package normalizer

import "strings"

// Column-name synonyms. Matching is substring-based against lower-cased,
// trimmed header names. The lists are fixed and not user-tunable.
var (
	dateSynonyms = []string{
		"date", "transaction date", "post date", "posting date",
		"trans date", "transaction_date", "posted date", "value date",
	}

	amountSynonyms = []string{
		"amount", "transaction amount", "debit", "credit",
		"value", "transaction_amount", "sum", "total",
	}

	debitSynonyms  = []string{"debit", "withdrawal", "outgoing"}
	creditSynonyms = []string{"credit", "deposit", "incoming"}

	descriptionSynonyms = []string{
		"description", "memo", "details", "transaction details",
		"merchant", "name", "payee", "reference", "transaction_description",
		"narrative", "transaction type", "category",
	}
)

// currencySymbols are stripped from amount cells before parsing.
var currencySymbols = []string{"$", "£", "€"}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func containsAny(name string, synonyms []string) bool {
	for _, s := range synonyms {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// firstMatch returns the left-most column matching any synonym, skipping
// columns for which skip returns true. It returns -1 when nothing matches.
func firstMatch(cols []string, synonyms []string, skip func(int) bool) int {
	for i, c := range cols {
		if skip != nil && skip(i) {
			continue
		}
		if containsAny(c, synonyms) {
			return i
		}
	}
	return -1
}
