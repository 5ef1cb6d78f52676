package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table, used for wallet and method lists.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // highlighted row, -1 for none
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// fit left-aligns s in exactly width cells, cutting with an ellipsis.
func fit(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return padR(s, width)
	}
	r := []rune(s)
	if width <= 1 || len(r) < width {
		return string(r[:max(width, 0)])
	}
	return string(r[:width-1]) + "…"
}

// Render returns the full table as a string. Cells are padded before
// styling so colour codes never count toward the column width.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)

	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = headerStyle.Render(fit(col.Title, col.Width))
	}
	sb.WriteString(strings.Join(cells, " ") + "\n")

	for i, col := range t.Columns {
		cells[i] = StyleMeta.Render(strings.Repeat("─", col.Width))
	}
	sb.WriteString(strings.Join(cells, " ") + "\n")

	for i, row := range t.Rows {
		style := cellStyle
		if i == t.SelIdx {
			style = StyleSelected
		}
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			cells[j] = style.Render(fit(val, col.Width))
		}
		sb.WriteString(strings.Join(cells, " ") + "\n")
	}

	return sb.String()
}

// KeyValueBlock renders key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-12s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(sb.String())
}
