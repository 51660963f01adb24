package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Schema errors
	ErrMissingColumn   = errors.New("required column missing")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrColumnLength    = errors.New("column length does not match table")
	ErrColumnPosition  = errors.New("column position out of range")

	// Value errors
	ErrParse                    = errors.New("value cannot be parsed")
	ErrUnrecognizedJurisdiction = errors.New("unrecognized jurisdiction format")

	// Non-fatal, reported only
	ErrCoercionFailure = errors.New("value cannot be coerced")
	ErrUnsupportedType = errors.New("unsupported target type")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewDuplicateColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateColumn, column)
}

// ValueError records an offending cell. It unwraps to the sentinel in Err.
type ValueError struct {
	Err    error
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	msg := fmt.Sprintf("%v: column %s row %d value %q", e.Err, e.Column, e.Row, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

func NewParseError(column string, row int, value, reason string) error {
	return &ValueError{Err: ErrParse, Column: column, Row: row, Value: value, Reason: reason}
}

func NewUnrecognizedJurisdictionError(column string, row int, value string) error {
	return &ValueError{Err: ErrUnrecognizedJurisdiction, Column: column, Row: row, Value: value}
}
