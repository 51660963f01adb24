// Package cleaning implements the monthly jail report cleaning stages:
// header normalization, report-date synthesis, jurisdiction-name cleanup and
// keyword-driven typecasting.
package cleaning

import (
	"strings"

	"jailreport/domain/table"

	"golang.org/x/text/unicode/norm"
)

// NormalizeColumnName returns the canonical form of a header: trimmed,
// lowercased, with every space replaced by an underscore.
func NormalizeColumnName(name string) string {
	name = norm.NFC.String(name)
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeColumnNames applies NormalizeColumnName to every name
func NormalizeColumnNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = NormalizeColumnName(name)
	}
	return out
}

// NormalizeColumns renames the table's columns in place. Two headers that
// collapse to the same canonical name are rejected.
func NormalizeColumns(t *table.Table) error {
	return t.Rename(NormalizeColumnNames(t.Names()))
}
