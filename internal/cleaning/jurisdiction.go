package cleaning

import (
	"sort"
	"strings"
	"unicode"

	"jailreport/domain/core"
	"jailreport/domain/table"
)

const (
	JurisdictionColumn   = "jurisdiction_name"
	JurisdictionPosition = 1
)

// JurisdictionRule marks where the entity name ends in a raw agency label.
// Lower Priority values are checked first.
type JurisdictionRule struct {
	Keyword  string `json:"keyword" yaml:"keyword"`
	Priority int    `json:"priority" yaml:"priority"`
}

// JurisdictionRules is an ordered rule set
type JurisdictionRules []JurisdictionRule

// DefaultJurisdictionRules are the descriptors used by the monthly reports.
// A label mentioning both "sheriff" and "correction" is always cut at "sheriff".
func DefaultJurisdictionRules() JurisdictionRules {
	return JurisdictionRules{
		{Keyword: "sheriff", Priority: 1},
		{Keyword: "correction", Priority: 2},
		{Keyword: "work", Priority: 3},
	}
}

// ordered returns a copy sorted by priority; equal priorities keep their order
func (r JurisdictionRules) ordered() JurisdictionRules {
	out := make(JurisdictionRules, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Extract returns the entity name preceding the first matching descriptor.
// Rules are tried by priority, not by where the keyword appears.
func (r JurisdictionRules) Extract(label string) (string, bool) {
	for _, rule := range r.ordered() {
		if idx := indexFold(label, rule.Keyword); idx >= 0 {
			return strings.TrimSpace(label[:idx]), true
		}
	}
	return "", false
}

// CleanJurisdictionName strips descriptors from every jurisdiction label and
// moves the column to position 1.
func CleanJurisdictionName(t *table.Table, rules JurisdictionRules) error {
	col, ok := t.Column(JurisdictionColumn)
	if !ok {
		return core.NewMissingColumnError(JurisdictionColumn)
	}

	ordered := rules.ordered()
	cleaned := make([]table.Value, col.Len())
	for row, v := range col.Values {
		raw := v.String()
		name, ok := ordered.Extract(raw)
		if !ok {
			return core.NewUnrecognizedJurisdictionError(JurisdictionColumn, row, raw)
		}
		cleaned[row] = table.NewStringValue(name)
	}

	col.Values = cleaned
	col.Kind = table.KindString

	if t.Index(JurisdictionColumn) != JurisdictionPosition {
		return t.Move(JurisdictionColumn, JurisdictionPosition)
	}
	return nil
}

// indexFold returns the byte offset in s of the first occurrence of substr
// after lowercasing both. Lowercasing can change a rune's byte length, so the
// match is mapped back through per-rune offsets before s is sliced with it.
func indexFold(s, substr string) int {
	if substr == "" {
		return 0
	}

	var lower strings.Builder
	lower.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		start := lower.Len()
		lower.WriteRune(unicode.ToLower(r))
		for j := start; j < lower.Len(); j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))

	idx := strings.Index(lower.String(), strings.ToLower(substr))
	if idx < 0 {
		return -1
	}
	return offsets[idx]
}
