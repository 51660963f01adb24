package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jailreport/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func testReader(buf *bytes.Buffer) *DataReader {
	return NewDataReader(DefaultReaderConfig(), internal.NewLoggerTo(buf, internal.LogLevelInfo))
}

func TestReadFile_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "june_2024.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"Jurisdiction Name", "Reporting Year", "Reporting Month", "Total Inmates"},
		{"Alpha County Sheriff's Office", 2024, 6, 120},
		{"Beta County Department of Corrections", 2024, 6, "abc"},
	})

	var logs bytes.Buffer
	tbl, err := testReader(&logs).ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jurisdiction Name", "Reporting Year", "Reporting Month", "Total Inmates"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, "2024", tbl.At(1).Values[0].Format())
	assert.Equal(t, "abc", tbl.At(3).Values[1].Format())

	out := logs.String()
	assert.Contains(t, out, "Loaded file: "+path)
	assert.Contains(t, out, "Shape (Rows x Columns): (2, 4)")
	assert.Contains(t, out, "Alpha County Sheriff's Office")
}

func TestReadFile_ExcelNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("July")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("July", "A1", &[]interface{}{"a", "b"}))
	require.NoError(t, f.SetSheetRow("July", "A2", &[]interface{}{"1", "2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var logs bytes.Buffer
	reader := NewDataReader(ReaderConfig{SheetName: "July"}, internal.NewLoggerTo(&logs, internal.LogLevelError))
	tbl, err := reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, 1, tbl.Rows())
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "august_2024.csv")
	content := "Jurisdiction Name,Reporting Year,Reporting Month\nAlpha County Sheriff,2024,8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var logs bytes.Buffer
	tbl, err := testReader(&logs).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Width())
	assert.Equal(t, "8", tbl.At(2).Values[0].Format())
}

func TestReadFile_Missing(t *testing.T) {
	var logs bytes.Buffer
	_, err := testReader(&logs).ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildTable(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a,,c\n1,2\n,,\n4,5,6\n"))
	require.NoError(t, err)

	tbl, err := BuildTable(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "Unnamed: 1", "c"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows())
	assert.True(t, tbl.At(2).Values[0].IsMissing())
	assert.Equal(t, "6", tbl.At(2).Values[1].Format())
}

func TestBuildTable_WideRowAddsColumn(t *testing.T) {
	tbl, err := BuildTable([][]string{{"a"}, {"1", "extra"}, {"2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1"}, tbl.Names())
	assert.True(t, tbl.At(1).Values[1].IsMissing())
}

func TestBuildTable_Empty(t *testing.T) {
	_, err := BuildTable(nil)
	assert.Error(t, err)

	tbl, err := BuildTable([][]string{{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 2, tbl.Width())
}

func TestBuildTable_DuplicateHeaders(t *testing.T) {
	tbl, err := BuildTable([][]string{
		{"Total", "Total", "Total.1", "Total"},
		{"1", "2", "3", "4"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Total", "Total.1", "Total.1.1", "Total.2"}, tbl.Names())
	assert.Equal(t, "2", tbl.At(1).Values[0].Format())
}

func TestDedupeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"unique", []string{"a", "b"}, []string{"a", "b"}},
		{"pair", []string{"a", "a"}, []string{"a", "a.1"}},
		{"three", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"suffix taken later", []string{"a", "a", "a.1"}, []string{"a", "a.1", "a.1.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupeHeaders(tt.in))
		})
	}
}
