package profiling

import (
	"jailreport/domain/table"

	"github.com/montanaflynn/stats"
	gstat "gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one column of a cleaned table
type ColumnSummary struct {
	Name    string     `json:"name"`
	Kind    table.Kind `json:"kind"`
	Count   int        `json:"count"`   // non-missing values
	Missing int        `json:"missing"` // missing markers
	Min     float64    `json:"min,omitempty"`
	Max     float64    `json:"max,omitempty"`
	Mean    float64    `json:"mean,omitempty"`
	Sum     float64    `json:"sum,omitempty"`
	Median  float64    `json:"median,omitempty"`
	StdDev  float64    `json:"std_dev,omitempty"` // sample standard deviation, zero below two values
	Numeric bool       `json:"numeric"`
}

// Summarize profiles every column. Integer and float columns also get
// min/max/mean/sum/median/std dev over their non-missing values.
func Summarize(t *table.Table) ([]ColumnSummary, error) {
	summaries := make([]ColumnSummary, 0, t.Width())
	for _, col := range t.Columns() {
		s, err := SummarizeColumn(col)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// SummarizeColumn profiles a single column
func SummarizeColumn(col *table.Column) (ColumnSummary, error) {
	summary := ColumnSummary{Name: col.Name, Kind: col.Kind}

	var data stats.Float64Data
	for _, v := range col.Values {
		if v.IsMissing() {
			summary.Missing++
			continue
		}
		summary.Count++
		if n, ok := v.AsInteger(); ok {
			data = append(data, float64(n))
		} else if f, ok := v.AsFloat(); ok {
			data = append(data, f)
		}
	}

	numeric := col.Kind == table.KindInteger || col.Kind == table.KindFloat
	if !numeric || len(data) == 0 {
		return summary, nil
	}
	summary.Numeric = true

	var err error
	if summary.Min, err = data.Min(); err != nil {
		return summary, err
	}
	if summary.Max, err = data.Max(); err != nil {
		return summary, err
	}
	if summary.Mean, err = data.Mean(); err != nil {
		return summary, err
	}
	if summary.Sum, err = data.Sum(); err != nil {
		return summary, err
	}
	if summary.Median, err = data.Median(); err != nil {
		return summary, err
	}
	if len(data) > 1 {
		summary.StdDev = gstat.StdDev(data, nil)
	}
	return summary, nil
}
