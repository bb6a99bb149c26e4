package analysis

import (
	"slices"
	"unicode/utf16"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/briefly/internal/core/overlay"
)

// Issue is the wire representation the analysis backend returns. Start and
// End count UTF-16 code units, the unit the backend's web clients index
// strings with.
type Issue struct {
	ID           int64  `json:"id"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	Category     string `json:"category,omitempty"`
	OriginalText string `json:"originalText,omitempty"`
}

// ToAnnotations converts backend issues for text into annotations, mapping
// code unit offsets to code points.
//
// Unknown severities are treated as info. Issues without an id get
// sequential ids following the largest id in the batch. The anchor comes
// from originalText when the backend sends it, else from text itself.
func ToAnnotations(issues []Issue, text string) []overlay.Annotation {
	var next int64
	for _, is := range issues {
		next = max(next, is.ID)
	}

	var (
		runes []rune
		units = newUnitTable(text)
	)
	out := make([]overlay.Annotation, 0, len(issues))
	for _, is := range issues {
		sev, err := overlay.ParseSeverity(is.Severity)
		if err != nil {
			log.Warn().Str("severity", is.Severity).Int64("id", is.ID).Msg("unknown issue severity, using info")
			sev = overlay.SeverityInfo
		}

		id := is.ID
		if id == 0 {
			next++
			id = next
		}

		start, end := units.toRune(is.Start), units.toRune(is.End)
		anchor := is.OriginalText
		if anchor == "" {
			if runes == nil {
				runes = []rune(text)
			}
			if start >= 0 && start < end && end <= len(runes) {
				anchor = string(runes[start:end])
			}
		}

		out = append(out, overlay.Annotation{
			ID:       id,
			Start:    start,
			End:      end,
			Severity: sev,
			Message:  is.Message,
			Category: is.Category,
			Anchor:   anchor,
		})
	}
	return out
}

// FromAnnotations converts annotations over text back to the wire shape.
func FromAnnotations(anns []overlay.Annotation, text string) []Issue {
	units := newUnitTable(text)
	out := make([]Issue, 0, len(anns))
	for _, a := range anns {
		out = append(out, Issue{
			ID:           a.ID,
			Start:        units.toUnit(a.Start),
			End:          units.toUnit(a.End),
			Message:      a.Message,
			Severity:     a.Severity.String(),
			Category:     a.Category,
			OriginalText: a.Anchor,
		})
	}
	return out
}

// unitTable holds the UTF-16 offset of every code point in a text, plus the
// total length as the final entry. Offsets past the end map one to one.
type unitTable []int

func newUnitTable(text string) unitTable {
	t := make(unitTable, 0, len(text)+1)
	n := 0
	for _, r := range text {
		t = append(t, n)
		n += utf16.RuneLen(r)
	}
	return append(t, n)
}

// toRune maps a code unit offset to a code point offset. An offset inside a
// surrogate pair moves to the end of that code point.
func (t unitTable) toRune(unit int) int {
	last := len(t) - 1
	switch {
	case unit <= 0:
		return unit
	case unit >= t[last]:
		return last + unit - t[last]
	}
	i, _ := slices.BinarySearch(t, unit)
	return i
}

func (t unitTable) toUnit(r int) int {
	last := len(t) - 1
	switch {
	case r <= 0:
		return r
	case r >= last:
		return t[last] + r - last
	}
	return t[r]
}
