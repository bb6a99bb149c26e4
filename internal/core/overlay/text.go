package overlay

import (
	"strings"
	"unicode/utf8"
)

// runeLen returns the length of s in code points.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidText returns s with every byte that is not part of a valid UTF-8
// sequence replaced by U+FFFD. Each invalid byte counts as one code point
// either way, so offsets computed on s still hold on the result.
func ValidText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}

// sliceRunes returns runes[start:end] as a string, clamping both bounds.
func sliceRunes(runes []rune, start, end int) string {
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	return string(runes[start:end])
}

// occurrences returns the code point offsets of every occurrence of sub in
// text, including overlapping ones, in ascending order.
func occurrences(text, sub string) []int {
	if sub == "" {
		return nil
	}

	var (
		out     []int
		byteOff int
		runeOff int
	)
	rest := text
	for {
		i := strings.Index(rest, sub)
		if i < 0 {
			return out
		}
		runeOff += utf8.RuneCountInString(rest[:i])
		out = append(out, runeOff)

		// Step one rune past the match start so overlapping matches are found.
		_, size := utf8.DecodeRuneInString(rest[i:])
		byteOff += i + size
		runeOff++
		rest = text[byteOff:]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
