package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jailreport/domain/table"
)

// OutputName returns processed_<basename>.csv for an input path
func OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "processed_" + base + ".csv"
}

// WriteCSV writes the header row and one record per row. Missing values are
// empty fields; there is no index column.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}

	record := make([]string, t.Width())
	for i := 0; i < t.Rows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = v.Format()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSV returns the CSV bytes for t
func RenderCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVWriter writes cleaned tables into an output directory
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a writer rooted at outputDir
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// Write renders t and stores it under the output name derived from
// inputPath. It returns the output path and the bytes written.
func (w *CSVWriter) Write(inputPath string, t *table.Table) (string, []byte, error) {
	data, err := RenderCSV(t)
	if err != nil {
		return "", nil, fmt.Errorf("render csv: %w", err)
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create output directory: %w", err)
	}
	outPath := filepath.Join(w.outputDir, OutputName(inputPath))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", nil, err
	}
	return outPath, data, nil
}
