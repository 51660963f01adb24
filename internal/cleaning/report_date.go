package cleaning

import (
	"math"
	"strconv"
	"strings"
	"time"

	"jailreport/domain/core"
	"jailreport/domain/table"
)

const (
	ReportDateColumn     = "report_date"
	ReportingYearColumn  = "reporting_year"
	ReportingMonthColumn = "reporting_month"
)

// SynthesizeReportDate replaces reporting_year and reporting_month with a
// single report_date column at position 0 holding the last day of each
// row's month.
func SynthesizeReportDate(t *table.Table) error {
	years, ok := t.Column(ReportingYearColumn)
	if !ok {
		return core.NewMissingColumnError(ReportingYearColumn)
	}
	months, ok := t.Column(ReportingMonthColumn)
	if !ok {
		return core.NewMissingColumnError(ReportingMonthColumn)
	}

	values := make([]table.Value, t.Rows())
	for row := range values {
		year, err := parseYear(years.Values[row])
		if err != nil {
			return core.NewParseError(ReportingYearColumn, row, years.Values[row].String(), err.Error())
		}
		month, err := parseMonth(months.Values[row])
		if err != nil {
			return core.NewParseError(ReportingMonthColumn, row, months.Values[row].String(), err.Error())
		}
		values[row] = table.NewDatetimeValue(core.EndOfMonth(year, month))
	}

	if err := t.Drop(ReportingMonthColumn, ReportingYearColumn); err != nil {
		return err
	}
	return t.Insert(0, &table.Column{Name: ReportDateColumn, Kind: table.KindDatetime, Values: values})
}

type componentError string

func (e componentError) Error() string { return string(e) }

const (
	errNotInteger    componentError = "not an integer"
	errYearRange     componentError = "year out of range"
	errMonthRange    componentError = "month out of range"
	errMissingValue  componentError = "value is missing"
	errUnknownFormat componentError = "not a month number or name"
)

// integerComponent reads integer-like values: 2024, "2024", "2024.0"
func integerComponent(v table.Value) (int, error) {
	if v.IsMissing() {
		return 0, errMissingValue
	}
	if n, ok := v.AsInteger(); ok {
		return int(n), nil
	}
	var f float64
	if x, ok := v.AsFloat(); ok {
		f = x
	} else {
		s, _ := v.AsText()
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotInteger
		}
		f = x
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotInteger
	}
	return int(f), nil
}

func parseYear(v table.Value) (int, error) {
	year, err := integerComponent(v)
	if err != nil {
		return 0, err
	}
	if year < 1 || year > 9999 {
		return 0, errYearRange
	}
	return year, nil
}

// parseMonth accepts 1-12 or an English month name or abbreviation
func parseMonth(v table.Value) (time.Month, error) {
	month, err := integerComponent(v)
	if err == nil {
		if month < 1 || month > 12 {
			return 0, errMonthRange
		}
		return time.Month(month), nil
	}
	if err == errMissingValue {
		return 0, err
	}

	s, _ := v.AsText()
	s = strings.TrimSpace(s)
	for _, layout := range []string{"January", "Jan"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Month(), nil
		}
	}
	return 0, errUnknownFormat
}
