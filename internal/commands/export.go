package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/store"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write stored transactions to a CSV file (- for stdout)",
		Args:  cobra.ExactArgs(1),
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

			return runExport(cmd.Context(), cmd.OutOrStdout(), st, args[0])
		},
	}
}

func runExport(ctx context.Context, out io.Writer, st *store.Store, path string) error {
	txns, err := st.All(ctx)
	if err != nil {
		return err
	}

	if path == "-" {
		return store.ExportCSV(out, txns)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := store.ExportCSV(f, txns); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported %d transactions to %s\n", len(txns), path)
	return nil
}
