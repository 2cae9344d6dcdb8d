package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVReader_Chase(t *testing.T) {
	f, err := os.Open("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	tbl, err := (&CSVReader{}).Read(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"Details", "Posting Date", "Description", "Amount", "Type", "Balance", "Check or Slip #"}, tbl.Header)
	require.Equal(t, 6, tbl.Len())
	assert.Len(t, tbl.Rows[0], 7, "trailing empty fields are truncated to the header width")
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", tbl.Cell(0, 2))
	assert.Equal(t, "-4.00", tbl.Cell(0, 3))
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", tbl.Record(3)["Description"])
}

func TestCSVReader_BOMAndCRLF(t *testing.T) {
	data, err := os.ReadFile("../../testdata/debit_credit.csv")
	require.NoError(t, err)

	tbl, err := (&CSVReader{}).Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "Post Date", tbl.Header[0])
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "3,500.00", tbl.Cell(1, 2))
	assert.Equal(t, "PAYROLL", tbl.Cell(1, 3))
}

func TestCSVReader_RaggedAndBlankRows(t *testing.T) {
	in := "Date,Description,Amount\n2024-01-01,SHORT\n,,\n2024-01-02,LONG,-1,extra\n"
	tbl, err := (&CSVReader{}).Read(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"2024-01-01", "SHORT", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"2024-01-02", "LONG", "-1"}, tbl.Rows[1])
}

func TestCSVReader_LazyQuotes(t *testing.T) {
	in := "Date,Description,Amount\n2024-01-01,JOE\"S DINER,-12.00\n"
	tbl, err := (&CSVReader{}).Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, `JOE"S DINER`, tbl.Cell(0, 1))
}

func TestCSVReader_Empty(t *testing.T) {
	tbl, err := (&CSVReader{}).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Equal(t, 0, tbl.Len())
}

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXReader(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{},
		{"Transaction Date", "Description", "Amount"},
		{"2024-03-01", "COFFEE", "-3.50"},
		{},
		{"2024-03-02", "REFUND"},
	})

	tbl, err := (&XLSXReader{}).Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Transaction Date", "Description", "Amount"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "-3.50", tbl.Cell(0, 2))
	assert.Equal(t, []string{"2024-03-02", "REFUND", ""}, tbl.Rows[1])
}

func TestXLSXReader_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXReader{}).Read(strings.NewReader("Date,Amount\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening workbook")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
	assert.Nil(t, r.ForFile("statement.pdf"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("CSV"))
	assert.Equal(t, "csv", r.ForFile("BANK.CSV").Format())
	assert.Equal(t, "xlsx", r.ForFile("export.Xlsx").Format())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVReader{})
	assert.Panics(t, func() { r.Register(&CSVReader{}) })
}

func TestRegistry_ReadFile(t *testing.T) {
	tbl, err := DefaultRegistry().ReadFile("../../testdata/debit_credit.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = DefaultRegistry().ReadFile("statement.pdf")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestScan_FindsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.xlsx"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "bank.csv", files[0].Name)
	assert.Equal(t, "card.xlsx", files[1].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(filepath.Join(t.TempDir(), "import"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processed := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(importDir, processed, "bank.csv"))

	_, err := os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(processed, "bank.csv"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := MarkProcessed(dir, filepath.Join(dir, "processed"), "gone.csv")
	assert.ErrorContains(t, err, "moving gone.csv")
}
