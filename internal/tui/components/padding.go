package components

import "strings"

// spaces backs Pad for the common widths.
var spaces = strings.Repeat(" ", 256)

// Pad returns a string of n spaces.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= len(spaces) {
		return spaces[:n]
	}
	return strings.Repeat(" ", n)
}
