package display

import (
	"strings"
)

// Table renders rows under a header with columns padded to a common width.
// Cells may carry styling; widths are measured on the printed text.
type Table struct {
	headers   []string
	rows      [][]string
	right     map[int]bool
	highlight int // row index, -1 for none
	notes     []string
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers, right: map[int]bool{}, highlight: -1}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// AlignRight right-aligns column col.
func (t *Table) AlignRight(col int) {
	t.right[col] = true
}

// SetHighlightRow marks row idx (0-based) with the accent style.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// AddNote appends a footnote printed under the table.
func (t *Table) AddNote(note string) {
	t.notes = append(t.notes, note)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the table, each line indented by two spaces.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], visibleLen(cell))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(t.formatRow(t.headers, widths)) + "\n")

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	sb.WriteString("  " + Dim(strings.Join(rule, "  ")) + "\n")

	for i, row := range t.rows {
		line := t.formatRow(row, widths)
		if i == t.highlight {
			line = Accent(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	if len(t.notes) > 0 {
		sb.WriteString("\n")
		for _, n := range t.notes {
			sb.WriteString("  " + Muted(n) + "\n")
		}
	}
	return sb.String()
}

func (t *Table) formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = pad(cell, w, t.right[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func pad(cell string, width int, right bool) string {
	fill := strings.Repeat(" ", max(0, width-visibleLen(cell)))
	if right {
		return fill + cell
	}
	return cell + fill
}
