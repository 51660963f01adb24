package cleaning

import (
	"fmt"
	"strings"

	"jailreport/adapters/datareadiness/coercer"
	"jailreport/domain/core"
	"jailreport/domain/table"
)

// TargetType is the semantic type a keyword-matched column is cast to
type TargetType string

const (
	TypeDatetime TargetType = "datetime"
	TypeInteger  TargetType = "integer"
	TypeFloat    TargetType = "float"
	TypeString   TargetType = "string"
)

// ParseTargetType resolves a configured type name, including the short
// aliases used in older rule lists.
func ParseTargetType(name string) (TargetType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "datetime", "date":
		return TypeDatetime, true
	case "integer", "int":
		return TypeInteger, true
	case "float":
		return TypeFloat, true
	case "string", "str":
		return TypeString, true
	}
	return "", false
}

// CastRule pairs a column-name keyword with a target type name. Type is kept
// as text so unsupported names from configuration reach the caster and get
// reported there.
type CastRule struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Type    string `json:"type" yaml:"type"`
}

// CastReport summarizes one CastByKeyword call
type CastReport struct {
	Keyword     string   `json:"keyword"`
	Type        string   `json:"type"`
	Columns     []string `json:"columns"`
	Failures    int      `json:"failures"`
	Unsupported bool     `json:"unsupported,omitempty"`
}

// Err describes a non-fatal cast problem, or nil when every value converted.
// The result wraps core.ErrUnsupportedType or core.ErrCoercionFailure.
func (r CastReport) Err() error {
	switch {
	case r.Unsupported:
		return fmt.Errorf("%w: %q for keyword %q; options are datetime, integer, float and string", core.ErrUnsupportedType, r.Type, r.Keyword)
	case r.Failures > 0:
		return fmt.Errorf("%w: %d value(s) of %v set to missing as %s", core.ErrCoercionFailure, r.Failures, r.Columns, r.Type)
	}
	return nil
}

// MatchColumns returns the names of columns containing keyword,
// case-insensitively, in table order
func MatchColumns(t *table.Table, keyword string) []string {
	kw := strings.ToLower(keyword)
	var names []string
	for _, name := range t.Names() {
		if strings.Contains(strings.ToLower(name), kw) {
			names = append(names, name)
		}
	}
	return names
}

// SelectByKeyword returns a copy of the columns whose name contains keyword.
// No match yields an empty table, not an error.
func SelectByKeyword(t *table.Table, keyword string) (*table.Table, error) {
	return t.Select(MatchColumns(t, keyword))
}

// CastByKeyword coerces every column whose name contains keyword. Values that
// cannot be converted become missing and are counted in the report. An
// unsupported type leaves the table untouched and is flagged in the report.
func CastByKeyword(t *table.Table, keyword, typeName string, c *coercer.TypeCoercer) CastReport {
	report := CastReport{Keyword: keyword, Type: typeName}

	target, ok := ParseTargetType(typeName)
	if !ok {
		report.Unsupported = true
		return report
	}

	for _, name := range MatchColumns(t, keyword) {
		col, _ := t.Column(name)
		report.Failures += castColumn(col, target, c)
		report.Columns = append(report.Columns, name)
	}
	return report
}

func castColumn(col *table.Column, target TargetType, c *coercer.TypeCoercer) int {
	failures := 0
	values := make([]table.Value, col.Len())
	for i, v := range col.Values {
		ok := true
		switch target {
		case TypeString:
			values[i] = c.ToString(v)
			continue
		case TypeDatetime:
			values[i], ok = c.ToDatetime(v)
		case TypeInteger:
			values[i], ok = c.ToInteger(v)
		case TypeFloat:
			values[i], ok = c.ToFloat(v)
		}
		if !ok {
			failures++
		}
	}

	col.Values = values
	col.Kind = kindFor(target)
	return failures
}

func kindFor(target TargetType) table.Kind {
	switch target {
	case TypeDatetime:
		return table.KindDatetime
	case TypeInteger:
		return table.KindInteger
	case TypeFloat:
		return table.KindFloat
	default:
		return table.KindString
	}
}
