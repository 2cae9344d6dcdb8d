package store

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// ExportRow is the CSV layout written by ExportCSV.
type ExportRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Source      string `csv:"source"`
	ID          string `csv:"id"`
}

// ExportCSV writes txns as CSV with a header row.
func ExportCSV(w io.Writer, txns []model.Transaction) error {
	rows := make([]*ExportRow, len(txns))
	for i, t := range txns {
		rows[i] = &ExportRow{
			Date:        t.Date.Format(dateLayout),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
			Category:    t.Category,
			Source:      t.Source,
			ID:          t.ID,
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
