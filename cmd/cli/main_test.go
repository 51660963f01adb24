package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"jailreport/domain/table"
	"jailreport/internal/config"
	"jailreport/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodCSV = `Reporting Year,Reporting Month,Jurisdiction Name,Total Inmates
2024,6,Alpha County Sheriff,10
2024,6,Beta County Corrections,n/a
`

const badCSV = `Reporting Year,Reporting Month,Jurisdiction Name,Total Inmates
2024,13,Alpha County Sheriff,10
`

func testConfig(t *testing.T, outDir string) *config.Config {
	t.Helper()
	t.Setenv("CAST_RULES_FILE", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("PREVIEW_ROWS", "0")
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Paths.OutputDir = outDir
	return cfg
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunProcess(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfg := testConfig(t, outDir)
	cfg.Run.WriteManifest = true

	good := writeInput(t, dir, "june_2024.csv", goodCSV)

	var out bytes.Buffer
	require.NoError(t, runProcess(context.Background(), cfg, []string{good}, &out))
	assert.Contains(t, out.String(), "Processed 1 of 1 files")

	data, err := os.ReadFile(filepath.Join(outDir, "processed_june_2024.csv"))
	require.NoError(t, err)
	assert.Equal(t, "report_date,jurisdiction_name,total_inmates\n2024-06-30,Alpha County,10\n2024-06-30,Beta County,\n", string(data))

	manifests, err := filepath.Glob(filepath.Join(outDir, "manifest_*.json"))
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}

func TestRunProcess_FailedFileExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, filepath.Join(dir, "out"))

	good := writeInput(t, dir, "june_2024.csv", goodCSV)
	bad := writeInput(t, dir, "july_2024.csv", badCSV)

	var out bytes.Buffer
	err := runProcess(context.Background(), cfg, []string{good, bad}, &out)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Contains(t, out.String(), "FAILED "+bad+" [PARSE_ERROR]")

	_, statErr := os.Stat(filepath.Join(dir, "out", "processed_june_2024.csv"))
	assert.NoError(t, statErr)
}

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, filepath.Join(dir, "out"))
	input := writeInput(t, dir, "june_2024.csv", goodCSV)

	var out bytes.Buffer
	require.NoError(t, runInspect(cfg, input, "inmates", &out))
	assert.Contains(t, out.String(), "total_inmates  integer")
	assert.Contains(t, out.String(), "mean")

	out.Reset()
	require.NoError(t, runInspect(cfg, input, "nothing", &out))
	assert.Equal(t, "No columns match \"nothing\"\n", out.String())

	_, err := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSummaries(t *testing.T) {
	var out bytes.Buffer
	err := writeSummaries(&out, []profiling.ColumnSummary{
		{Name: "total", Kind: table.KindInteger, Count: 2, Missing: 1, Min: 1, Max: 3, Mean: 2, Sum: 4, Numeric: true},
		{Name: "name", Kind: table.KindString, Count: 3},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "2.00")
	assert.Contains(t, string(lines[2]), "-")
}

func TestProcessCmd_RequiresFiles(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"process"})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
