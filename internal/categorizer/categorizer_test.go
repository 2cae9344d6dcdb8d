package categorizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finadvisor/internal/config"
	"github.com/cleared-dev/finadvisor/internal/model"
)

// fakeCompleter answers from a table keyed by the description in the prompt.
type fakeCompleter struct {
	mu      sync.Mutex
	answers map[string]string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for _, line := range strings.Split(prompt, "\n") {
		if desc, ok := strings.CutPrefix(line, "Transaction Description: "); ok {
			return f.answers[desc], nil
		}
	}
	return "", nil
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func testConfig() config.CategorizationConfig {
	cfg := config.Default().Categorization
	cfg.RequestsPerSecond = 0
	return cfg
}

func TestCategorize_KeywordRuleSkipsModel(t *testing.T) {
	fc := &fakeCompleter{}
	c := New(fc, testConfig())

	got := c.Categorize(context.Background(), "Netflix.com 866-579-7172", decimal.NewFromInt(-15))
	assert.Equal(t, model.CategorySubscriptions, got)
	assert.Equal(t, 0, fc.calls())
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []config.KeywordRule{
		{Category: model.CategoryTravel, Keywords: []string{"AIRPORT"}},
		{Category: model.CategoryTransport, Keywords: []string{"UBER"}},
	}
	c := New(nil, cfg)

	assert.Equal(t, model.CategoryTravel, c.Categorize(context.Background(), "UBER TRIP AIRPORT", decimal.NewFromInt(-40)))
	assert.Equal(t, model.CategoryTransport, c.Categorize(context.Background(), "uber trip", decimal.NewFromInt(-12)))
}

func TestCategorize_ModelAnswerSnapped(t *testing.T) {
	fc := &fakeCompleter{answers: map[string]string{
		"SAFEWAY #123":    "Groceries",
		"BLUE BOTTLE":     "restaurants & dining",
		"PG&E":            "Category: Utilities",
		"CITY APARTMENTS": "Rent",
		"CVS PHARMACY":    "Healthcre",
		"MYSTERY VENDOR":  "Pizza Parlour",
		"SILENT":          "",
	}}
	c := New(fc, testConfig())
	ctx := context.Background()
	amt := decimal.NewFromInt(-10)

	assert.Equal(t, model.CategoryGroceries, c.Categorize(ctx, "SAFEWAY #123", amt))
	assert.Equal(t, model.CategoryDining, c.Categorize(ctx, "BLUE BOTTLE", amt))
	assert.Equal(t, model.CategoryUtilities, c.Categorize(ctx, "PG&E", amt))
	assert.Equal(t, model.CategoryHousing, c.Categorize(ctx, "CITY APARTMENTS", amt))
	assert.Equal(t, model.CategoryHealthcare, c.Categorize(ctx, "CVS PHARMACY", amt))
	assert.Equal(t, model.CategoryOther, c.Categorize(ctx, "MYSTERY VENDOR", amt))
	assert.Equal(t, model.CategoryOther, c.Categorize(ctx, "SILENT", amt))
}

func TestCategorize_ModelErrorIsOther(t *testing.T) {
	c := New(&fakeCompleter{err: errors.New("503 service unavailable")}, testConfig())
	assert.Equal(t, model.CategoryOther, c.Categorize(context.Background(), "SOMETHING", decimal.NewFromInt(-1)))
}

func TestCategorize_NoCompleter(t *testing.T) {
	c := New(nil, testConfig())
	assert.Equal(t, model.CategoryOther, c.Categorize(context.Background(), "SAFEWAY", decimal.NewFromInt(-1)))
}

func TestPrompt(t *testing.T) {
	fc := &fakeCompleter{answers: map[string]string{}}
	c := New(fc, testConfig())
	c.Categorize(context.Background(), "HOME DEPOT", decimal.RequireFromString("-45.5"))

	require.Equal(t, 1, fc.calls())
	p := fc.prompts[0]
	assert.Contains(t, p, "Transaction Description: HOME DEPOT\n")
	assert.Contains(t, p, "Amount: $45.50\n")
	assert.Contains(t, p, "- Rent/Mortgage\n")
	assert.Contains(t, p, "Return ONLY the category name")
}

func TestCategorizeBatch_PreservesOrder(t *testing.T) {
	fc := &fakeCompleter{answers: map[string]string{
		"SHELL OIL":   "Transportation",
		"AMAZON MKTP": "Shopping",
		"CHIPOTLE":    "Restaurants & Dining",
	}}
	c := New(fc, testConfig())

	in := []model.Transaction{
		{Description: "SHELL OIL", Amount: decimal.NewFromInt(-40)},
		{Description: "PAYROLL ACME", Amount: decimal.NewFromInt(3500)},
		{Description: "AMAZON MKTP", Amount: decimal.NewFromInt(-25)},
		{Description: "CHIPOTLE", Amount: decimal.NewFromInt(-12)},
	}
	out, err := c.CategorizeBatch(context.Background(), in)
	require.NoError(t, err)

	var got []string
	for _, txn := range out {
		got = append(got, txn.Category)
	}
	assert.Equal(t, []string{model.CategoryTransport, model.CategoryIncome, model.CategoryShopping, model.CategoryDining}, got)
	assert.Empty(t, in[0].Category, "input is not modified")
	assert.Equal(t, 3, fc.calls())
}

func TestCategorizeBatch_ConcurrentKeywordRules(t *testing.T) {
	cfg := testConfig()
	cfg.Concurrency = 8
	cfg.Rules = []config.KeywordRule{
		{Category: model.CategorySubscriptions, Keywords: []string{"NETFLIX"}},
		{Category: model.CategoryGroceries, Keywords: []string{"WHOLE FOODS"}},
	}
	c := New(nil, cfg)

	descriptions := []string{"NETFLIX.COM", "WHOLE FOODS #10", "CORNER SHOP"}
	want := []string{model.CategorySubscriptions, model.CategoryGroceries, model.CategoryOther}

	in := make([]model.Transaction, 400)
	for i := range in {
		in[i] = model.Transaction{Description: descriptions[i%3], Amount: decimal.NewFromInt(-10)}
	}
	out, err := c.CategorizeBatch(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i, txn := range out {
		assert.Equal(t, want[i%3], txn.Category, "row %d (%s)", i, txn.Description)
	}
}

func TestCategorizeBatch_Cancelled(t *testing.T) {
	c := New(&fakeCompleter{}, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CategorizeBatch(ctx, []model.Transaction{{Description: "X"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCategorizeBatch_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = nil
	cfg.Concurrency = 1
	cfg.RequestsPerSecond = 20
	c := New(&fakeCompleter{}, cfg)

	txns := make([]model.Transaction, 5)
	start := time.Now()
	_, err := c.CategorizeBatch(context.Background(), txns)
	require.NoError(t, err)
	// burst of 1 then 4 waits of 50ms
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestSnap(t *testing.T) {
	cats := model.DefaultCategories()
	tests := []struct {
		answer string
		want   string
	}{
		{"Travel", model.CategoryTravel},
		{"  Income ", model.CategoryIncome},
		{"subscriptions", model.CategorySubscriptions},
		{"Dining", model.CategoryDining},
		{"Utilites", model.CategoryUtilities},
		{"Grocereis", model.CategoryGroceries},
		{"Gambling", model.CategoryOther},
		{"", model.CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snap(tt.answer, cats, 3), "snap(%q)", tt.answer)
	}
}
