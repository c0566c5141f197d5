package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableColumn defines a column in a table. A zero Width means unbounded.
type TableColumn struct {
	Name  string
	Width int
}

// Table provides styled table rendering with display-width aware padding.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{w: w, styles: NewTableStyles(), columns: columns}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(t.format(names)))
}

// WriteRow writes a data row. Missing values render empty and long ones are truncated.
func (t *Table) WriteRow(values ...string) {
	_, _ = fmt.Fprintln(t.w, t.styles.Cell.Render(t.format(values)))
}

func (t *Table) format(values []string) string {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		var v string
		if i < len(values) {
			v = values[i]
		}
		cells[i] = FitCell(v, col.Width, i == len(t.columns)-1)
	}
	return strings.Join(cells, "  ")
}

// FitCell truncates s to width display cells and, unless last, pads it to width.
func FitCell(s string, width int, last bool) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	if last {
		return s
	}
	return runewidth.FillRight(s, width)
}
