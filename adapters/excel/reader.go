package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jailreport/domain/table"
	"jailreport/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader loads report spreadsheets (xlsx or csv) into a table
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// fileType returns "csv" for .csv files and "xlsx" otherwise
func fileType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadFile reads the file at path into a table of raw values
func (r *DataReader) ReadFile(path string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	start := time.Now()
	var rows [][]string
	var err error
	switch fileType(path) {
	case "csv":
		rows, err = r.readCSVRows(path)
	default:
		rows, err = r.readExcelRows(path)
	}
	if err != nil {
		return nil, err
	}

	t, err := BuildTable(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.logger.Info("Loaded file: %s", path)
	r.logger.Info("\tShape (Rows x Columns): (%d, %d)", t.Rows(), t.Width())
	r.logger.Debug("\tread in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)
	if r.config.PreviewRows > 0 && r.logger.Enabled(internal.LogLevelInfo) {
		var b strings.Builder
		if err := WritePreview(&b, t, r.config.PreviewRows); err == nil {
			r.logger.Info("\tPreview Rows:\n%s", b.String())
		}
	}
	return t, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV reads all records, allowing ragged rows
func ReadCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// BuildTable turns header + data rows into a table. Short rows are padded
// with missing values, fully blank rows are skipped, blank headers are named
// "Unnamed: N" by position, and repeated headers get ".1", ".2" suffixes.
func BuildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		if len(row) > width && !isBlank(row[width:]) {
			width = len(row)
		}
	}

	names := make([]string, width)
	for i := range names {
		if i < len(header) {
			names[i] = header[i]
		}
		if strings.TrimSpace(names[i]) == "" {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	columns := make([]*table.Column, width)
	for i, name := range dedupeHeaders(names) {
		columns[i] = table.NewColumn(name, nil)
	}

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if strings.TrimSpace(cell) == "" {
				cell = ""
			}
			col.Values = append(col.Values, table.NewRawValue(cell))
		}
	}

	return table.New(columns...)
}

// dedupeHeaders renames repeats as name.1, name.2, ... skipping any suffixed
// name that is already taken
func dedupeHeaders(names []string) []string {
	out := make([]string, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		n := counts[name]
		for n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
			n = counts[name]
		}
		out[i] = name
		counts[name] = n + 1
	}
	return out
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
