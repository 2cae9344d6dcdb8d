package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/analytics"
	"github.com/cleared-dev/finadvisor/internal/model"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var months int
	var currency string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a spending summary of stored transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts.dir)
			if err != nil {
				return err
			}
			st, err := ws.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			txns, err := st.All(cmd.Context())
			if err != nil {
				return err
			}
			return runReport(cmd.OutOrStdout(), txns, months, currency, time.Now())
		},
	}

	cmd.Flags().IntVar(&months, "months", 1, "length of the compared periods in months")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code for display")

	return cmd
}

func runReport(out io.Writer, txns []model.Transaction, months int, currency string, now time.Time) error {
	if len(txns) == 0 {
		fmt.Fprintln(out, "No transactions imported yet. Run finadvisor import first.")
		return nil
	}
	sum := analytics.Summarize(txns)
	fmt.Fprintf(out, "%d transactions from %s to %s\n", sum.TotalTransactions, sum.From, sum.To)
	fmt.Fprintf(out, "Spent:  %s\n", analytics.FormatMoney(sum.TotalSpent, currency))
	fmt.Fprintf(out, "Income: %s\n", analytics.FormatMoney(sum.TotalIncome, currency))
	fmt.Fprintf(out, "Net:    %s\n\n", analytics.FormatMoney(sum.Net, currency))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tCOUNT\tAVERAGE")
	for _, ct := range analytics.CategoryTotals(txns) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", ct.Category,
			analytics.FormatMoney(ct.Sum, currency), ct.Count, analytics.FormatMoney(ct.Mean, currency))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	sav := analytics.SavingsOpportunities(txns)
	fmt.Fprintf(out, "\nAverage monthly spend: %s\n", analytics.FormatMoney(sav.MonthlyAverage, currency))
	if len(sav.RecurringCharges) > 0 {
		fmt.Fprintln(out, "Possible subscriptions:")
		for _, rc := range sav.RecurringCharges {
			fmt.Fprintf(out, "  %s (%dx)\n", rc.Description, rc.Count)
		}
	}

	cmp := analytics.ComparePeriods(txns, months, now)
	fmt.Fprintf(out, "\nLast %d month(s) since %s: %s (previous: %s, change %s, %s%%)\n",
		cmp.Months, cmp.CurrentStart,
		analytics.FormatMoney(cmp.CurrentTotal, currency),
		analytics.FormatMoney(cmp.PreviousTotal, currency),
		analytics.FormatMoney(cmp.Change, currency),
		cmp.PercentChange.String())
	for _, c := range cmp.Increased {
		fmt.Fprintf(out, "  up   %s %s\n", c.Category, analytics.FormatMoney(c.Change, currency))
	}
	for _, c := range cmp.Decreased {
		fmt.Fprintf(out, "  down %s %s\n", c.Category, analytics.FormatMoney(c.Change.Neg(), currency))
	}
	return nil
}
