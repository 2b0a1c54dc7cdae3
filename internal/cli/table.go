package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment of a table column.
type Alignment int

// Column alignments.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table is a plain column layout for command output.
type Table struct {
	headers []string
	align   []Alignment
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, align: make([]Alignment, len(headers))}
}

// Align sets the alignment of column i.
func (t *Table) Align(i int, a Alignment) *Table {
	if i >= 0 && i < len(t.align) {
		t.align[i] = a
	}
	return t
}

// AddRow appends a row. Missing cells are blank and extra cells are dropped.
func (t *Table) AddRow(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render draws the table.
func (t *Table) Render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var total int
	for _, w := range widths {
		total += w + tableCellStyle.GetPaddingRight()
	}

	lines := []string{tableHeaderStyle.Width(total).Render(t.line(t.headers, widths))}
	for _, row := range t.rows {
		lines = append(lines, t.line(row, widths))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		style := tableCellStyle.Width(widths[i] + tableCellStyle.GetPaddingRight())
		if t.align[i] == AlignRight {
			style = style.Align(lipgloss.Right)
		}
		parts[i] = style.Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
