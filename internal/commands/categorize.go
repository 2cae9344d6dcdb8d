package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/activity"
	"github.com/cleared-dev/finadvisor/internal/model"
)

func newCategorizeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Categorize stored transactions that are still uncategorized or Other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(opts.dir)
			if err != nil {
				return err
			}
			return runCategorize(cmd.Context(), cmd.OutOrStdout(), ws)
		},
	}
}

func runCategorize(ctx context.Context, out io.Writer, ws *workspace) error {
	st, err := ws.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	pending, err := st.Uncategorized(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, "Nothing to categorize")
		return nil
	}

	cat, err := ws.newCategorizer(ctx)
	if err != nil {
		return err
	}
	done, err := cat.CategorizeBatch(ctx, pending)
	if err != nil {
		return err
	}

	rec := activity.NewRecorder("categorize")
	defer ws.flushActivity(ctx, rec)

	updated, still := 0, 0
	for i, t := range done {
		if t.Category == model.CategoryOther {
			still++
		}
		if t.Category == pending[i].Category || t.Category == "" {
			continue
		}
		if err := st.UpdateCategory(ctx, t.ID, t.Category); err != nil {
			return err
		}
		updated++
	}

	categorized := len(done) - still
	rec.Record("categorize_batch", "", fmt.Sprintf("%d checked, %d categorized, %d still %s", len(done), categorized, still, model.CategoryOther), updated)
	fmt.Fprintf(out, "Checked %d transactions: %d categorized, %d still %s\n", len(done), categorized, still, model.CategoryOther)
	return nil
}
