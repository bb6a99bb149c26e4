package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/colonyops/briefly/internal/core/overlay"
	"github.com/colonyops/briefly/internal/core/styles"
)

type cellKind int

const (
	cellPlain cellKind = iota
	cellIssue
	cellSelected
	cellCursor
)

type cellStyle struct {
	kind     cellKind
	severity overlay.Severity
	hovered  bool
}

func (c cellStyle) style() lipgloss.Style {
	switch c.kind {
	case cellCursor:
		return styles.CursorStyle
	case cellSelected:
		return styles.SelectionStyle
	case cellIssue:
		return styles.IssueStyle(c.severity.String(), c.hovered)
	default:
		return styles.TextStyle
	}
}

// frame is everything needed to draw the visible rows.
type frame struct {
	layout   *Layout
	segments []overlay.Segment

	cursor     int
	showCursor bool

	selStart, selEnd int
	hasSelection     bool

	hovered  int64
	hasHover bool

	top, height int
	gutter      int
}

// gutterWidth returns the line number column width for n lines, including
// the trailing space.
func gutterWidth(lines int) int {
	return len(fmt.Sprint(lines)) + 1
}

// render draws rows [top, top+height) of the layout. Rows past the end of
// the text are drawn empty so the result always has height lines.
func (f frame) render() []string {
	out := make([]string, 0, f.height)
	cursorRow := -1
	if f.showCursor {
		cursorRow = f.layout.RowOf(f.cursor)
	}

	for i := f.top; i < f.top+f.height; i++ {
		if i >= f.layout.Rows() {
			out = append(out, strings.Repeat(" ", f.gutter))
			continue
		}

		var b strings.Builder
		b.WriteString(f.renderGutter(i))
		b.WriteString(f.renderRow(i, i == cursorRow))
		out = append(out, b.String())
	}
	return out
}

func (f frame) renderGutter(rowIdx int) string {
	if f.gutter == 0 {
		return ""
	}
	n := f.layout.LineNumber(rowIdx)
	if n == 0 {
		return strings.Repeat(" ", f.gutter)
	}
	return styles.LineNumberStyle.Render(fmt.Sprintf("%*d ", f.gutter-1, n))
}

func (f frame) renderRow(rowIdx int, hasCursor bool) string {
	start, end := f.layout.Range(rowIdx)
	runes := f.layout.runes

	var (
		out  strings.Builder
		run  strings.Builder
		cur  cellStyle
		open bool
	)
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(cur.style().Render(run.String()))
			run.Reset()
		}
	}

	for off := start; off < end; off++ {
		cs := f.styleAt(off, hasCursor)
		if !open || cs != cur {
			flush()
			cur, open = cs, true
		}
		run.WriteString(displayRune(runes[off]))
	}
	flush()

	if hasCursor && f.cursor == end {
		out.WriteString(styles.CursorStyle.Render(" "))
	}
	return out.String()
}

func (f frame) styleAt(off int, rowHasCursor bool) cellStyle {
	if rowHasCursor && off == f.cursor {
		return cellStyle{kind: cellCursor}
	}
	if f.hasSelection && off >= f.selStart && off < f.selEnd {
		return cellStyle{kind: cellSelected}
	}
	if seg, ok := segmentAt(f.segments, off); ok && seg.Annotation != nil {
		return cellStyle{
			kind:     cellIssue,
			severity: seg.Annotation.Severity,
			hovered:  f.hasHover && seg.Annotation.ID == f.hovered,
		}
	}
	return cellStyle{kind: cellPlain}
}

func segmentAt(segs []overlay.Segment, off int) (overlay.Segment, bool) {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].End > off })
	if i < len(segs) && segs[i].Start <= off {
		return segs[i], true
	}
	return overlay.Segment{}, false
}

func displayRune(r rune) string {
	switch {
	case r == '\t':
		return strings.Repeat(" ", TabWidth)
	case runewidth.RuneWidth(r) < 1:
		return " "
	default:
		return string(r)
	}
}
