package table

import (
	"math"
	"strconv"
	"time"
)

// Kind defines the storage type for values
type Kind string

const (
	KindRaw      Kind = "raw"
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindDatetime Kind = "datetime"
	KindMissing  Kind = "missing"
)

// MissingText is the textual form of a missing value when a column is forced to string.
const MissingText = "nan"

// Value represents one cell. Exactly one payload pointer is set unless the
// value is missing.
type Value struct {
	Kind     Kind       `json:"kind"`
	Text     *string    `json:"text,omitempty"`
	Integer  *int64     `json:"integer,omitempty"`
	Float    *float64   `json:"float,omitempty"`
	Datetime *time.Time `json:"datetime,omitempty"`
}

// NewRawValue creates an untyped value as read from a source file.
// Empty input is treated as missing.
func NewRawValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Kind: KindRaw, Text: &s}
}

// NewStringValue creates a string value. Unlike raw values the empty string is kept.
func NewStringValue(s string) Value {
	return Value{Kind: KindString, Text: &s}
}

// NewIntegerValue creates an integer value
func NewIntegerValue(n int64) Value {
	return Value{Kind: KindInteger, Integer: &n}
}

// NewFloatValue creates a float value; NaN is stored as missing
func NewFloatValue(f float64) Value {
	if math.IsNaN(f) {
		return NewMissingValue()
	}
	return Value{Kind: KindFloat, Float: &f}
}

// NewDatetimeValue creates a datetime value
func NewDatetimeValue(t time.Time) Value {
	return Value{Kind: KindDatetime, Datetime: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Kind: KindMissing}
}

// IsMissing reports whether v is the missing marker
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing || v.Kind == ""
}

// AsText returns the text payload for raw and string values
func (v Value) AsText() (string, bool) {
	if (v.Kind == KindRaw || v.Kind == KindString) && v.Text != nil {
		return *v.Text, true
	}
	return "", false
}

// AsInteger returns the integer payload
func (v Value) AsInteger() (int64, bool) {
	if v.Kind == KindInteger && v.Integer != nil {
		return *v.Integer, true
	}
	return 0, false
}

// AsFloat returns the float payload
func (v Value) AsFloat() (float64, bool) {
	if v.Kind == KindFloat && v.Float != nil {
		return *v.Float, true
	}
	return 0, false
}

// AsDatetime returns the datetime payload
func (v Value) AsDatetime() (time.Time, bool) {
	if v.Kind == KindDatetime && v.Datetime != nil {
		return *v.Datetime, true
	}
	return time.Time{}, false
}

// String returns the textual representation used when a column is forced to
// string. Missing values render as MissingText.
func (v Value) String() string {
	if v.IsMissing() {
		return MissingText
	}
	return v.Format()
}

// Format renders the value for delimited output. Missing values are empty.
func (v Value) Format() string {
	switch v.Kind {
	case KindRaw, KindString:
		if v.Text != nil {
			return *v.Text
		}
	case KindInteger:
		if v.Integer != nil {
			return strconv.FormatInt(*v.Integer, 10)
		}
	case KindFloat:
		if v.Float != nil {
			return FormatFloat(*v.Float)
		}
	case KindDatetime:
		if v.Datetime != nil {
			return FormatDatetime(*v.Datetime)
		}
	}
	return ""
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return v.IsMissing() && o.IsMissing()
	}
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindDatetime {
		a, _ := v.AsDatetime()
		b, _ := o.AsDatetime()
		return a.Equal(b)
	}
	return v.Format() == o.Format()
}

// FormatFloat renders the shortest representation, keeping a trailing ".0"
// on integral values so float columns stay recognisable in CSV output.
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) {
		s += ".0"
	}
	return s
}

// FormatDatetime renders a date as YYYY-MM-DD, adding the clock only when set.
func FormatDatetime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
