package editor

import (
	"sort"

	"github.com/mattn/go-runewidth"
)

// TabWidth is the number of cells a tab occupies.
const TabWidth = 4

// row is one visual line: the runes [start, end) of the text. end never
// includes the newline that terminates a logical line.
type row struct {
	start, end int
	// first is set on the first visual row of a logical line.
	first bool
	// line is the 1-based logical line number.
	line int
}

// Layout maps rune offsets to soft-wrapped screen cells.
type Layout struct {
	runes []rune
	rows  []row
	width int
}

// cellWidth returns the number of cells r occupies.
func cellWidth(r rune) int {
	if r == '\t' {
		return TabWidth
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		// control and zero width runes still get a cell so the cursor can
		// land on them
		return 1
	}
	return w
}

// NewLayout wraps runes to width cells. Widths below 2 are raised to 2.
func NewLayout(runes []rune, width int) *Layout {
	width = max(width, 2)
	l := &Layout{runes: runes, width: width}

	line := 1
	start, cells := 0, 0
	first := true
	for i, r := range runes {
		if r == '\n' {
			l.rows = append(l.rows, row{start: start, end: i, first: first, line: line})
			line++
			start, cells, first = i+1, 0, true
			continue
		}

		w := cellWidth(r)
		// keep one cell free at the end of the row for the cursor
		if cells+w > width-1 && i > start {
			l.rows = append(l.rows, row{start: start, end: i, first: first, line: line})
			start, cells, first = i, 0, false
		}
		cells += w
	}
	l.rows = append(l.rows, row{start: start, end: len(runes), first: first, line: line})
	return l
}

// Rows returns the number of visual rows.
func (l *Layout) Rows() int { return len(l.rows) }

// Width returns the wrap width.
func (l *Layout) Width() int { return l.width }

// RowOf returns the visual row holding offset. An offset at a soft wrap
// boundary belongs to the following row.
func (l *Layout) RowOf(offset int) int {
	i := sort.Search(len(l.rows), func(i int) bool {
		return l.rows[i].start > offset
	})
	return max(i-1, 0)
}

// Position returns the (row, col) cell of offset.
func (l *Layout) Position(offset int) (rowIdx, col int) {
	offset = min(max(offset, 0), len(l.runes))
	rowIdx = l.RowOf(offset)
	r := l.rows[rowIdx]
	for i := r.start; i < offset && i < r.end; i++ {
		col += cellWidth(l.runes[i])
	}
	return rowIdx, col
}

// OffsetAt returns the offset drawn at (row, col). inside is false when the
// cell lies past the end of the row or outside the layout, in which case
// the nearest offset is returned.
func (l *Layout) OffsetAt(rowIdx, col int) (offset int, inside bool) {
	if rowIdx < 0 {
		return 0, false
	}
	if rowIdx >= len(l.rows) {
		return len(l.runes), false
	}

	r := l.rows[rowIdx]
	if col < 0 {
		return r.start, false
	}

	cells := 0
	for i := r.start; i < r.end; i++ {
		w := cellWidth(l.runes[i])
		if col < cells+w {
			return i, true
		}
		cells += w
	}

	// past the end of a soft wrapped row: stay on this row
	if rowIdx+1 < len(l.rows) && !l.rows[rowIdx+1].first && r.end > r.start {
		return r.end - 1, false
	}
	return r.end, false
}

// Range returns the offsets [start, end) of a visual row.
func (l *Layout) Range(rowIdx int) (start, end int) {
	r := l.rows[rowIdx]
	return r.start, r.end
}

// LineNumber returns the logical line number shown beside a row, or 0 for
// wrapped continuation rows.
func (l *Layout) LineNumber(rowIdx int) int {
	r := l.rows[rowIdx]
	if !r.first {
		return 0
	}
	return r.line
}

// Lines returns the number of logical lines.
func (l *Layout) Lines() int {
	return l.rows[len(l.rows)-1].line
}

// Vertical returns the offset reached by moving delta rows from offset
// while trying to stay in column goal.
func (l *Layout) Vertical(offset, delta, goal int) int {
	rowIdx, _ := l.Position(offset)
	target := rowIdx + delta
	if target < 0 {
		return 0
	}
	if target >= len(l.rows) {
		return len(l.runes)
	}
	off, _ := l.OffsetAt(target, goal)
	return off
}
