package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/importer"
	"github.com/cleared-dev/finadvisor/internal/normalizer"
)

func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Show which columns a bank export maps to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout(), args[0])
		},
	}
}

func runPreview(out io.Writer, path string) error {
	tbl, err := importer.DefaultRegistry().ReadFile(path)
	if err != nil {
		return err
	}

	m, err := normalizer.Preview(tbl)
	var schemaErr *normalizer.SchemaError
	if err != nil && !errors.As(err, &schemaErr) {
		return err
	}

	fmt.Fprintf(out, "File:        %s (%d rows)\n", path, tbl.Len())
	fmt.Fprintf(out, "Columns:     %s\n", strings.Join(m.AllColumns, ", "))
	fmt.Fprintf(out, "Date:        %s\n", orNone(m.DateColumn))
	switch {
	case m.AmountColumn != "":
		fmt.Fprintf(out, "Amount:      %s\n", m.AmountColumn)
	case m.DebitColumn != "" && m.CreditColumn != "":
		fmt.Fprintf(out, "Amount:      %s (debit) / %s (credit)\n", m.DebitColumn, m.CreditColumn)
	default:
		fmt.Fprintf(out, "Amount:      %s\n", orNone(""))
	}
	fmt.Fprintf(out, "Description: %s [%s]\n", orNone(strings.Join(m.DescriptionColumns, " | ")), m.DescriptionSource)

	if len(m.SampleRow) > 0 {
		fmt.Fprintln(out, "Sample row:")
		for _, col := range m.AllColumns {
			fmt.Fprintf(out, "  %s = %s\n", col, m.SampleRow[col])
		}
	}

	// A schema problem is reported after showing what was found.
	return err
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
