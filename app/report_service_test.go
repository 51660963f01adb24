package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jailreport/adapters/excel"
	"jailreport/domain/run"
	"jailreport/internal"
	"jailreport/internal/cleaning"
	"jailreport/internal/errors"
	"jailreport/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xlsx "github.com/xuri/excelize/v2"
)

var testRules = []cleaning.CastRule{
	{Keyword: "#", Type: "int"},
	{Keyword: "inmates", Type: "int"},
	{Keyword: "total", Type: "int"},
	{Keyword: "date", Type: "datetime"},
}

func writeReport(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := xlsx.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := xlsx.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func goodReport() [][]interface{} {
	return [][]interface{}{
		{"Total Inmates", "Jurisdiction Name", "Reporting Year", "Reporting Month", "# Booked"},
		{120, "Alpha County Sheriff's Office", 2024, 2, 7},
		{"abc", "Beta County Corrections", 2024, 2, ""},
		{85, "Gamma County Work Release Program", 2024, 2, 3},
	}
}

func newService(t *testing.T, outDir string, parallelism int) (*ReportService, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelInfo)
	svc := NewReportService(
		excel.NewDataReader(excel.ReaderConfig{PreviewRows: 3}, logger),
		excel.NewCSVWriter(outDir),
		cleaning.NewPipeline(testRules, cleaning.WithLogger(logger)),
		logger,
		parallelism,
	)
	return svc, &logs
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "june_2024.xlsx")
	writeReport(t, input, goodReport())

	outDir := filepath.Join(dir, "processed_data")
	svc, _ := newService(t, outDir, 1)

	res, err := svc.ProcessFile(input)
	require.NoError(t, err)
	assert.Equal(t, run.StatusProcessed, res.Status)
	assert.Equal(t, filepath.Join(outDir, "processed_june_2024.csv"), res.Output)
	assert.Equal(t, 3, res.Rows)
	assert.False(t, res.Fingerprint.IsEmpty())

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "report_date,jurisdiction_name,total_inmates,#_booked", lines[0])
	assert.Equal(t, "2024-02-29,Alpha County,120,7", lines[1])
	assert.Equal(t, "2024-02-29,Beta County,,", lines[2])
	assert.Equal(t, "2024-02-29,Gamma County,85,3", lines[3])
}

func TestProcessFile_Failure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "july_2024.xlsx")
	rows := goodReport()
	rows[2][1] = "Example County Library"
	writeReport(t, input, rows)

	svc, _ := newService(t, filepath.Join(dir, "out"), 1)
	res, err := svc.ProcessFile(input)
	require.Error(t, err)

	assert.Equal(t, run.StatusFailed, res.Status)
	assert.Equal(t, errors.CodeUnrecognizedJurisdiction, res.ErrorCode)
	assert.Equal(t, string(cleaning.StageJurisdiction), res.Stage)
	assert.Contains(t, err.Error(), input)
	assert.Contains(t, err.Error(), "Example County Library")

	_, statErr := os.Stat(filepath.Join(dir, "out", "processed_july_2024.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessFile_Unreadable(t *testing.T) {
	svc, _ := newService(t, t.TempDir(), 1)
	res, err := svc.ProcessFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeReadError, res.ErrorCode)
}

func TestProcessAll_ContinuesPastFailures(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		dir := t.TempDir()
		good := filepath.Join(dir, "june_2024.xlsx")
		bad := filepath.Join(dir, "july_2024.xlsx")
		alsoGood := filepath.Join(dir, "august_2024.xlsx")
		writeReport(t, good, goodReport())
		writeReport(t, alsoGood, goodReport())

		badRows := goodReport()
		badRows[0][2] = "Fiscal Year"
		writeReport(t, bad, badRows)

		svc, logs := newService(t, filepath.Join(dir, "out"), parallelism)
		manifest, err := svc.ProcessAll(context.Background(), []string{good, bad, alsoGood})
		require.NoError(t, err)

		require.Len(t, manifest.Files, 3)
		failed := manifest.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, bad, failed[0].Input)
		assert.Equal(t, errors.CodeMissingColumn, failed[0].ErrorCode)
		assert.Contains(t, logs.String(), "[ERROR]")

		_, err = os.Stat(filepath.Join(dir, "out", "processed_august_2024.csv"))
		assert.NoError(t, err)
	}
}

func TestProcessAll_Cancelled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "june_2024.xlsx")
	writeReport(t, input, goodReport())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newService(t, filepath.Join(dir, "out"), 1)
	_, err := svc.ProcessAll(ctx, []string{input})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "june_2024.xlsx")
	writeReport(t, input, goodReport())

	first, _ := newService(t, filepath.Join(dir, "a"), 1)
	second, _ := newService(t, filepath.Join(dir, "b"), 1)

	r1, err := first.ProcessFile(input)
	require.NoError(t, err)
	r2, err := second.ProcessFile(input)
	require.NoError(t, err)

	assert.Equal(t, r1.Fingerprint, r2.Fingerprint)
	assert.Equal(t, r1.Columns, r2.Columns)
}

func TestCleanFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "june_2024.xlsx")
	writeReport(t, input, goodReport())

	svc, _ := newService(t, filepath.Join(dir, "out"), 1)
	result, err := svc.CleanFile(input)
	require.NoError(t, err)

	sub, err := cleaning.SelectByKeyword(result.Table, "date")
	require.NoError(t, err)
	assert.Equal(t, []string{"report_date"}, sub.Names())

	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessAll_GeneratedReports(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var reports []*testkit.GeneratedReport
	for i, month := range []time.Month{time.January, time.February, time.March, time.April} {
		config := testkit.DefaultReportConfig()
		config.Month = month
		config.Seed = int64(i + 1)
		config.MissingRate = 0.1
		config.MonthAsName = i%2 == 1
		report := testkit.NewReportGenerator(config).Generate()

		path := filepath.Join(dir, strings.ToLower(month.String())+"_2024.xlsx")
		if i == 3 {
			path = filepath.Join(dir, "april_2024.csv")
			require.NoError(t, report.WriteCSV(path))
		} else {
			require.NoError(t, report.WriteXLSX(path))
		}
		paths = append(paths, path)
		reports = append(reports, report)
	}

	sequential, _ := newService(t, filepath.Join(dir, "seq"), 1)
	parallel, _ := newService(t, filepath.Join(dir, "par"), 4)

	seqManifest, err := sequential.ProcessAll(context.Background(), paths)
	require.NoError(t, err)
	parManifest, err := parallel.ProcessAll(context.Background(), paths)
	require.NoError(t, err)

	require.Empty(t, seqManifest.Failed())
	require.NoError(t, seqManifest.Validate())
	require.Len(t, parManifest.Files, len(paths))
	for i := range seqManifest.Files {
		assert.Equal(t, seqManifest.Files[i].Input, parManifest.Files[i].Input)
		assert.Equal(t, seqManifest.Files[i].Fingerprint, parManifest.Files[i].Fingerprint)
	}

	svc, _ := newService(t, filepath.Join(dir, "unused"), 1)
	for i, path := range paths {
		result, err := svc.CleanFile(path)
		require.NoError(t, err)
		col, ok := result.Table.Column("jurisdiction_name")
		require.True(t, ok)
		for row, want := range reports[i].Jurisdictions {
			assert.Equal(t, want, col.Values[row].String())
		}
	}
}

func TestProcessAll_NoFiles(t *testing.T) {
	svc, _ := newService(t, t.TempDir(), 1)
	manifest, err := svc.ProcessAll(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, manifest)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
