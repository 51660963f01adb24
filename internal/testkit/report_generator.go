package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	xlsx "github.com/xuri/excelize/v2"
)

// ReportHeaders is the raw header row of a generated monthly report
var ReportHeaders = []string{
	"Reporting Year",
	"Reporting Month",
	"Jurisdiction Name",
	"Total Inmates",
	"# Booked",
	"Sentenced Inmates",
	"Average Daily Population",
}

var countyNames = []string{
	"Adams", "Baker", "Clay", "Dade", "Elbert", "Floyd", "Glynn", "Hall",
	"Irwin", "Jasper", "Lamar", "Macon", "Newton", "Oconee", "Pike", "Rabun",
}

var agencySuffixes = []string{
	" Sheriff's Office",
	" Sheriff",
	" SHERIFF DEPT",
	" Correctional Facility",
	" Corrections Center",
	" Work Release Program",
}

// ReportGeneratorConfig configures the report generator
type ReportGeneratorConfig struct {
	Jurisdictions int        `json:"jurisdictions"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	MonthAsName   bool       `json:"month_as_name"` // "June" instead of 6
	MissingRate   float64    `json:"missing_rate"`  // share of count cells left blank or "n/a"
	Seed          int64      `json:"seed"`
}

// DefaultReportConfig returns a small, fully populated June 2024 report
func DefaultReportConfig() ReportGeneratorConfig {
	return ReportGeneratorConfig{
		Jurisdictions: 12,
		Year:          2024,
		Month:         time.June,
		Seed:          42,
	}
}

// ReportGenerator produces synthetic monthly jail population reports in the
// shape agencies submit them
type ReportGenerator struct {
	config ReportGeneratorConfig
	rng    *rand.Rand
}

// GeneratedReport holds the raw rows and the jurisdiction names a correct
// cleaning run should produce, in row order
type GeneratedReport struct {
	Rows          [][]string
	Jurisdictions []string
	Missing       int
}

// NewReportGenerator creates a generator. Equal configs yield equal reports.
func NewReportGenerator(config ReportGeneratorConfig) *ReportGenerator {
	return &ReportGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the header row followed by one row per jurisdiction
func (g *ReportGenerator) Generate() *GeneratedReport {
	report := &GeneratedReport{Rows: [][]string{append([]string(nil), ReportHeaders...)}}

	month := strconv.Itoa(int(g.config.Month))
	if g.config.MonthAsName {
		month = g.config.Month.String()
	}

	for i := 0; i < g.config.Jurisdictions; i++ {
		county := countyNames[i%len(countyNames)] + " County"
		if i >= len(countyNames) {
			county = fmt.Sprintf("%s %d", county, i/len(countyNames)+1)
		}
		suffix := agencySuffixes[g.rng.Intn(len(agencySuffixes))]

		total := 20 + g.rng.Intn(900)
		booked := g.rng.Intn(total/2 + 1)
		sentenced := g.rng.Intn(total + 1)
		adp := float64(total) * (0.85 + g.rng.Float64()*0.3)

		row := []string{
			strconv.Itoa(g.config.Year),
			month,
			county + suffix,
			g.count(report, total),
			g.count(report, booked),
			g.count(report, sentenced),
			strconv.FormatFloat(adp, 'f', 1, 64),
		}
		report.Rows = append(report.Rows, row)
		report.Jurisdictions = append(report.Jurisdictions, county)
	}
	return report
}

func (g *ReportGenerator) count(report *GeneratedReport, n int) string {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		report.Missing++
		if g.rng.Intn(2) == 0 {
			return ""
		}
		return "n/a"
	}
	if n >= 1000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return strconv.Itoa(n)
}

// WriteXLSX saves the report as a single-sheet workbook
func (r *GeneratedReport) WriteXLSX(path string) error {
	f := xlsx.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range r.Rows {
		cell, err := xlsx.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return f.SaveAs(path)
}

// WriteCSV saves the report as comma separated text
func (r *GeneratedReport) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(r.Rows); err != nil {
		return err
	}
	return file.Close()
}
