package excel

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"jailreport/domain/table"
)

// WritePreview prints the first n rows as an aligned text table, with the
// row number in the first column.
func WritePreview(w io.Writer, t *table.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\t%s\n", strings.Join(t.Names(), "\t"))
	if n > t.Rows() {
		n = t.Rows()
	}
	for i := 0; i < n; i++ {
		cells := make([]string, t.Width())
		for j, v := range t.Row(i) {
			cells[j] = v.String()
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteKinds prints each column's name and kind, one per line
func WriteKinds(w io.Writer, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, col := range t.Columns() {
		fmt.Fprintf(tw, "%s\t%s\n", col.Name, col.Kind)
	}
	return tw.Flush()
}
