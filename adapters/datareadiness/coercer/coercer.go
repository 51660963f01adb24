package coercer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"jailreport/domain/table"

	"github.com/xuri/excelize/v2"
)

// TypeCoercer converts cell values to a target kind. Every conversion is
// total: a value that cannot be converted comes back as the missing marker
// together with ok=false so callers can count failures without aborting.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	DateLayouts      []string `json:"date_layouts" yaml:"date_layouts"`
	ExcelSerialDates bool     `json:"excel_serial_dates" yaml:"excel_serial_dates"` // numbers in date columns are Excel day serials
	Date1904         bool     `json:"date_1904" yaml:"date_1904"`                   // workbook uses the 1904 date system
	MaxExcelSerial   float64  `json:"max_excel_serial" yaml:"max_excel_serial"`
}

// DefaultCoercionConfig returns the layouts seen in the monthly reports
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		DateLayouts: []string{
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			time.RFC3339,
			"1/2/2006",
			"1/2/2006 15:04",
			"1/2/2006 15:04:05",
			"1/2/06",
			"01-02-06",
			"2006/01/02",
			"Jan 2, 2006",
			"January 2, 2006",
			"2-Jan-2006",
			"02-Jan-06",
			"2006-01",
			"2006",
		},
		ExcelSerialDates: true,
		MaxExcelSerial:   2958465, // 9999-12-31
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// ToDatetime parses v as a date or timestamp
func (c *TypeCoercer) ToDatetime(v table.Value) (table.Value, bool) {
	if v.IsMissing() {
		return table.NewMissingValue(), true
	}
	if _, ok := v.AsDatetime(); ok {
		return v, true
	}
	if n, ok := v.AsInteger(); ok {
		return c.fromExcelSerial(float64(n))
	}
	if f, ok := v.AsFloat(); ok {
		return c.fromExcelSerial(f)
	}

	s, _ := v.AsText()
	s = strings.TrimSpace(s)
	if s == "" {
		return table.NewMissingValue(), false
	}
	if t, ok := c.tryParseTimestamp(s); ok {
		return table.NewDatetimeValue(t), true
	}
	if f, ok := ParseNumeric(s); ok {
		return c.fromExcelSerial(f)
	}
	return table.NewMissingValue(), false
}

// ToInteger converts v to an integer. Non-integral numbers are failures.
func (c *TypeCoercer) ToInteger(v table.Value) (table.Value, bool) {
	if v.IsMissing() {
		return table.NewMissingValue(), true
	}
	if _, ok := v.AsInteger(); ok {
		return v, true
	}

	var f float64
	switch {
	case v.Kind == table.KindFloat:
		f, _ = v.AsFloat()
	case v.Kind == table.KindRaw || v.Kind == table.KindString:
		s, _ := v.AsText()
		clean, ok := cleanNumeric(s)
		if !ok {
			return table.NewMissingValue(), false
		}
		n, err := strconv.ParseInt(clean, 10, 64)
		if err == nil {
			return table.NewIntegerValue(n), true
		}
		if errors.Is(err, strconv.ErrRange) {
			return table.NewMissingValue(), false
		}
		if f, ok = parseFloat(clean); !ok {
			return table.NewMissingValue(), false
		}
	default:
		return table.NewMissingValue(), false
	}

	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return table.NewMissingValue(), false
	}
	return table.NewIntegerValue(int64(f)), true
}

// ToFloat converts v to a float
func (c *TypeCoercer) ToFloat(v table.Value) (table.Value, bool) {
	if v.IsMissing() {
		return table.NewMissingValue(), true
	}
	if _, ok := v.AsFloat(); ok {
		return v, true
	}
	if n, ok := v.AsInteger(); ok {
		return table.NewFloatValue(float64(n)), true
	}
	if s, ok := v.AsText(); ok {
		if f, ok := ParseNumeric(s); ok {
			return table.NewFloatValue(f), true
		}
	}
	return table.NewMissingValue(), false
}

// ToString forces v to its textual form. It never fails.
func (c *TypeCoercer) ToString(v table.Value) table.Value {
	return table.NewStringValue(v.String())
}

// ParseNumeric parses report-style numbers: surrounding space, "$",
// thousands commas and accounting negatives "(12)" are accepted.
func ParseNumeric(s string) (float64, bool) {
	clean, ok := cleanNumeric(s)
	if !ok {
		return 0, false
	}
	return parseFloat(clean)
}

// cleanNumeric strips report decorations and returns plain signed number text
func cleanNumeric(s string) (string, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return "", false
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	if !strings.ContainsAny(clean, "0123456789") {
		return "", false
	}
	if negative {
		clean = "-" + clean
	}
	return clean, true
}

func parseFloat(clean string) (float64, bool) {
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// tryParseTimestamp attempts each configured layout in order
func (c *TypeCoercer) tryParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range c.config.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c *TypeCoercer) fromExcelSerial(f float64) (table.Value, bool) {
	if !c.config.ExcelSerialDates || f < 1 || f > c.config.MaxExcelSerial {
		return table.NewMissingValue(), false
	}
	t, err := excelize.ExcelDateToTime(f, c.config.Date1904)
	if err != nil {
		return table.NewMissingValue(), false
	}
	return table.NewDatetimeValue(t.UTC()), true
}
