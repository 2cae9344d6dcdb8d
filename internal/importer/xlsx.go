package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// XLSXReader reads the first sheet of an Excel workbook.
type XLSXReader struct{}

// Format returns the reader name.
func (p *XLSXReader) Format() string { return "xlsx" }

// Extensions returns the file extensions handled by the reader.
func (p *XLSXReader) Extensions() []string { return []string{".xlsx", ".xlsm"} }

// Read parses the first sheet. The first non-empty row is the header.
func (p *XLSXReader) Read(r io.Reader) (*model.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return model.NewRawTable(nil, nil), nil
	}

	header := rows[start]
	var out [][]string
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		out = append(out, fitRow(row, len(header)))
	}
	return model.NewRawTable(header, out), nil
}
