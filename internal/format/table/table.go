package table

import "strings"

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Widths returns the widest cell of every column. Rows may be ragged; missing
// cells count as empty.
func Widths(rows [][]string) []int {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	for _, row := range rows {
		for c, cell := range row {
			if width := CellWidth(cell); width > widths[c] {
				widths[c] = width
			}
		}
	}
	return widths
}

// Format returns the rows padded according to the widest entry in each column.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := Widths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(Pad("", widths[c]-CellWidth(cell)))
				b.WriteString(cell)
			} else {
				b.WriteString(Pad(cell, widths[c]))
			}
		}
		out[i] = b.String()
	}
	return out
}

// Pad right-pads text with spaces up to width cells.
func Pad(text string, width int) string {
	var b strings.Builder
	b.WriteString(text)
	writeSpaces(&b, width-CellWidth(text))
	return b.String()
}

// CellWidth counts runes; catalog text is expected to be single-width.
func CellWidth(text string) int {
	return len([]rune(text))
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		b.WriteByte(' ')
	}
}
