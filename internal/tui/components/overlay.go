package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Place draws fg over bg with its top-left corner at cell (x, y). Lines of
// fg that fall below bg extend it; cells left of x keep the background.
func Place(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	x = max(x, 0)

	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}

		base := bgLines[row]
		left := ansi.Truncate(base, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += Pad(x - w)
		}
		right := ansi.TruncateLeft(base, x+ansi.StringWidth(line), "")

		bgLines[row] = left + ansi.ResetStyle + line + ansi.ResetStyle + right
	}
	return strings.Join(bgLines, "\n")
}

// PlaceCenter draws fg centred over a width x height background.
func PlaceCenter(bg, fg string, width, height int) string {
	w, h := Size(fg)
	return Place(bg, fg, (width-w)/2, (height-h)/2)
}

// PlaceBottomRight draws fg in the lower-right corner, one cell from the
// right edge.
func PlaceBottomRight(bg, fg string, width, height int) string {
	w, h := Size(fg)
	return Place(bg, fg, max(width-w-1, 0), max(height-h, 0))
}

// Size returns the cell width and line count of s.
func Size(s string) (width, height int) {
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	return width, len(lines)
}
