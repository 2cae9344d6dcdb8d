package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/model"
	"github.com/cleared-dev/finadvisor/internal/search"
)

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over stored transactions",
		Args:  cobra.MinimumNArgs(1),
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
			return runSearch(cmd.OutOrStdout(), txns, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "maximum number of results")

	return cmd
}

func runSearch(out io.Writer, txns []model.Transaction, query string, limit int) error {
	ix, err := search.NewIndex()
	if err != nil {
		return err
	}
	defer ix.Close()

	if err := ix.Add(txns); err != nil {
		return err
	}
	hits, err := ix.Search(query, limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintf(out, "No transactions match %q\n", query)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY")
	for _, h := range hits {
		t := h.Transaction
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Date.Format("2006-01-02"), t.Description, t.Amount.StringFixed(2), orNone(t.Category))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
