// Package categorizer assigns each transaction one label from a closed
// category set, using keyword rules first and a language model otherwise.
package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cleared-dev/finadvisor/internal/config"
	"github.com/cleared-dev/finadvisor/internal/llm"
	"github.com/cleared-dev/finadvisor/internal/logger"
	"github.com/cleared-dev/finadvisor/internal/model"
)

// Categorizer is safe for concurrent use.
type Categorizer struct {
	completer   llm.Completer // nil means rules only
	categories  []string
	rules       *ruleMatcher
	maxDistance int
	concurrency int
	limiter     *rate.Limiter
}

// New creates a Categorizer. completer may be nil, in which case anything
// not matched by a rule is Other.
func New(completer llm.Completer, cfg config.CategorizationConfig) *Categorizer {
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = model.DefaultCategories()
	}
	conc := cfg.Concurrency
	if conc < 1 {
		conc = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Categorizer{
		completer:   completer,
		categories:  cats,
		rules:       newRuleMatcher(cfg.Rules),
		maxDistance: cfg.FuzzyThreshold,
		concurrency: conc,
		limiter:     rate.NewLimiter(limit, conc),
	}
}

// Categories returns the closed category set.
func (c *Categorizer) Categories() []string { return c.categories }

// Categorize returns the category for one transaction. It never fails:
// model errors fall back to Other.
func (c *Categorizer) Categorize(ctx context.Context, description string, amount decimal.Decimal) string {
	log := logger.FromContext(ctx)

	if cat, ok := c.rules.match(description); ok {
		log.Debug().Str("description", description).Str("category", cat).Msg("keyword rule")
		return cat
	}
	if c.completer == nil {
		return model.CategoryOther
	}

	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("description", description).Msg("categorize: rate limiter")
		return model.CategoryOther
	}
	answer, err := c.completer.Complete(ctx, c.prompt(description, amount))
	if err != nil {
		log.Warn().Err(err).Str("description", description).Msg("categorize: model call failed")
		return model.CategoryOther
	}
	cat := snap(answer, c.categories, c.maxDistance)
	log.Debug().Str("description", description).Str("answer", answer).Str("category", cat).Msg("model")
	return cat
}

// CategorizeBatch returns a copy of txns with Category set, in input order.
// Model calls run concurrently up to the configured limit.
func (c *Categorizer) CategorizeBatch(ctx context.Context, txns []model.Transaction) ([]model.Transaction, error) {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range out {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].Category = c.Categorize(gctx, out[i].Description, out[i].Amount)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("categorizing batch: %w", err)
	}
	return out, nil
}

func (c *Categorizer) prompt(description string, amount decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("You are a financial transaction categorizer. Given a transaction description and amount,\n")
	b.WriteString("categorize it into the most appropriate category.\n\n")
	fmt.Fprintf(&b, "Transaction Description: %s\n", description)
	fmt.Fprintf(&b, "Amount: $%s\n\n", amount.Abs().StringFixed(2))
	b.WriteString("Available Categories:\n")
	for _, cat := range c.categories {
		fmt.Fprintf(&b, "- %s\n", cat)
	}
	b.WriteString("\nReturn ONLY the category name that best fits this transaction. Be consistent with your categorization.\n\nCategory:")
	return b.String()
}
