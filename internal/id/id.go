package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// namespace scopes transaction IDs so they never collide with other
// name-based UUIDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://finadvisor.local/transaction"))

// TransactionID returns a deterministic UUIDv5 for the seq-th occurrence of
// an identical (date, description, amount) row in source. Importing the
// same file twice yields the same IDs.
func TransactionID(source string, date time.Time, description string, amount decimal.Decimal, seq int) string {
	key := fmt.Sprintf("%s\x1f%s\x1f%s\x1f%s\x1f%d",
		strings.ToLower(source),
		date.Format("2006-01-02"),
		strings.TrimSpace(description),
		amount.StringFixed(2),
		seq,
	)
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// Assign returns a copy of txns with Source set and IDs computed. Identical
// rows within the batch get increasing sequence numbers in input order.
func Assign(txns []model.Transaction, source string) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	seen := make(map[string]int)
	for i, t := range txns {
		k := t.Date.Format("2006-01-02") + "\x1f" + t.Description + "\x1f" + t.Amount.StringFixed(2)
		t.Source = source
		t.ID = TransactionID(source, t.Date, t.Description, t.Amount, seen[k])
		seen[k]++
		out[i] = t
	}
	return out
}

// Short returns the first block of an ID for display, e.g. "3f2a9c1e".
func Short(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// Valid reports whether s is a well-formed transaction ID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
