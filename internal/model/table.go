package model

// RawTable is an unvalidated table read from a bank export. Column names
// and order are whatever the source supplied.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// NewRawTable creates a RawTable. Rows may be ragged; missing cells read as "".
func NewRawTable(header []string, rows [][]string) *RawTable {
	return &RawTable{Header: header, Rows: rows}
}

// FromRecords builds a RawTable from name-keyed rows. The header fixes the
// column order; keys absent from a record become empty cells.
func FromRecords(header []string, records []map[string]string) *RawTable {
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		for j, name := range header {
			row[j] = rec[name]
		}
		rows[i] = row
	}
	return NewRawTable(header, rows)
}

// Len returns the number of data rows.
func (t *RawTable) Len() int { return len(t.Rows) }

// Cell returns the value at row, col or "" when the row is short.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Record returns row as a column-name keyed map. Later duplicate column
// names overwrite earlier ones.
func (t *RawTable) Record(row int) map[string]string {
	rec := make(map[string]string, len(t.Header))
	for j, name := range t.Header {
		rec[name] = t.Cell(row, j)
	}
	return rec
}
