package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// CSVReader reads comma-separated bank exports of any layout.
type CSVReader struct{}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format returns the reader name.
func (p *CSVReader) Format() string { return "csv" }

// Extensions returns the file extensions handled by the reader.
func (p *CSVReader) Extensions() []string { return []string{".csv"} }

// Read parses a CSV export. The first record is the header; rows are padded
// or truncated to its width and blank rows are skipped.
func (p *CSVReader) Read(r io.Reader) (*model.RawTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return model.NewRawTable(nil, nil), nil
	}

	header := records[0]
	var rows [][]string
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, fitRow(rec, len(header)))
	}
	return model.NewRawTable(header, rows), nil
}
