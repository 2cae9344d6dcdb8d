package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/finadvisor/internal/analytics"
	"github.com/cleared-dev/finadvisor/internal/model"
	"github.com/cleared-dev/finadvisor/internal/search"
)

// NoDataMessage is what every data tool answers when nothing is loaded.
const NoDataMessage = "No transaction data available. Please import transactions first."

const defaultSearchLimit = 10

// DataTools exposes analytics over a fixed set of transactions.
type DataTools struct {
	txns  []model.Transaction
	index *search.Index // may be nil
	now   func() time.Time
}

// NewDataTools creates data tools. index may be nil, in which case
// search_transactions is not registered.
func NewDataTools(txns []model.Transaction, index *search.Index) *DataTools {
	return &DataTools{txns: txns, index: index, now: time.Now}
}

// Register adds the data tools to tb.
func (d *DataTools) Register(tb *Toolbox) {
	tb.Register(Tool{
		Name:        "query_transactions",
		Description: "Overview of the transaction data: count, date range, total spent, total income and transactions per category.",
		Handler:     d.queryTransactions,
	})
	tb.Register(Tool{
		Name:        "category_spending",
		Description: "Spending by category. Give a category name for its total, average and recent transactions, or omit it for every category.",
		Parameters: objectSchema(map[string]any{
			"category": map[string]any{"type": "string", "description": "Category name, e.g. Groceries"},
		}),
		Handler: d.categorySpending,
	})
	tb.Register(Tool{
		Name:        "savings_opportunities",
		Description: "Find potential savings: the top spending categories, likely subscriptions and the average monthly spend.",
		Handler:     d.savingsOpportunities,
	})
	tb.Register(Tool{
		Name:        "compare_periods",
		Description: "Compare spending over the last N months (30-day windows) with the N months before, including which categories grew or shrank.",
		Parameters: objectSchema(map[string]any{
			"months": map[string]any{"type": "integer", "description": "Window length in months", "minimum": 1, "default": 1},
		}),
		Handler: d.comparePeriods,
	})
	if d.index != nil {
		tb.Register(Tool{
			Name:        "search_transactions",
			Description: "Full-text search over transaction descriptions and categories, e.g. a merchant name.",
			Parameters: objectSchema(map[string]any{
				"query": map[string]any{"type": "string", "description": "Words to search for"},
				"limit": map[string]any{"type": "integer", "description": "Maximum results", "default": defaultSearchLimit},
			}, "query"),
			Handler: d.searchTransactions,
		})
	}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(b), nil
}

func decodeArgs(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (d *DataTools) queryTransactions(_ context.Context, _ json.RawMessage) (string, error) {
	if len(d.txns) == 0 {
		return NoDataMessage, nil
	}
	return toJSON(analytics.Summarize(d.txns))
}

func (d *DataTools) categorySpending(_ context.Context, raw json.RawMessage) (string, error) {
	if len(d.txns) == 0 {
		return NoDataMessage, nil
	}
	var args struct {
		Category string `json:"category"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	if args.Category == "" {
		return toJSON(analytics.CategoryTotals(d.txns))
	}
	detail, ok := analytics.CategorySpending(d.txns, args.Category)
	if !ok {
		return fmt.Sprintf("No expenses found for category: %s", args.Category), nil
	}
	return toJSON(detail)
}

func (d *DataTools) savingsOpportunities(_ context.Context, _ json.RawMessage) (string, error) {
	if len(d.txns) == 0 {
		return NoDataMessage, nil
	}
	return toJSON(analytics.SavingsOpportunities(d.txns))
}

func (d *DataTools) comparePeriods(_ context.Context, raw json.RawMessage) (string, error) {
	if len(d.txns) == 0 {
		return NoDataMessage, nil
	}
	var args struct {
		Months int `json:"months"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	return toJSON(analytics.ComparePeriods(d.txns, args.Months, d.now()))
}

type searchResult struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
}

func (d *DataTools) searchTransactions(_ context.Context, raw json.RawMessage) (string, error) {
	if len(d.txns) == 0 {
		return NoDataMessage, nil
	}
	var args struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	if args.Limit <= 0 {
		args.Limit = defaultSearchLimit
	}
	hits, err := d.index.Search(args.Query, args.Limit)
	if errors.Is(err, search.ErrEmptyQuery) {
		return "", errors.New("query is required")
	}
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No transactions match %q", args.Query), nil
	}
	out := make([]searchResult, len(hits))
	for i, h := range hits {
		out[i] = searchResult{
			Date:        h.Transaction.Date.Format("2006-01-02"),
			Description: h.Transaction.Description,
			Amount:      h.Transaction.Amount.StringFixed(2),
			Category:    h.Transaction.Category,
			Score:       h.Score,
		}
	}
	return toJSON(out)
}
