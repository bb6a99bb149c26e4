package overlay

// Segment is a contiguous slice of the text, optionally tagged with the
// display unit that covers it.
type Segment struct {
	Text       string
	Start      int
	End        int
	Annotation *Annotation
}

// Annotated reports whether the segment is covered by an annotation.
func (s Segment) Annotated() bool {
	return s.Annotation != nil
}

// ID returns the id of the covering annotation, if any.
func (s Segment) ID() (int64, bool) {
	if s.Annotation == nil {
		return 0, false
	}
	return s.Annotation.ID, true
}

// Partition splits text into segments around the merged units, which must
// be sorted and non-overlapping. Units that violate this (or fall outside
// the text) are skipped so the segments always concatenate back to text.
// Text that is not valid UTF-8 is first passed through ValidText, and the
// segments concatenate to that instead.
//
// Without units the whole text is returned as one plain segment, even when
// text is empty.
func Partition(text string, merged []Annotation) []Segment {
	text = ValidText(text)
	runes := []rune(text)
	if len(merged) == 0 {
		return []Segment{{Text: text, Start: 0, End: len(runes)}}
	}

	segs := make([]Segment, 0, len(merged)*2+1)
	cursor := 0
	for _, unit := range merged {
		if unit.Start < cursor || unit.End > len(runes) || unit.Start >= unit.End {
			continue
		}

		if cursor < unit.Start {
			segs = append(segs, Segment{
				Text:  string(runes[cursor:unit.Start]),
				Start: cursor,
				End:   unit.Start,
			})
		}

		u := unit
		segs = append(segs, Segment{
			Text:       string(runes[unit.Start:unit.End]),
			Start:      unit.Start,
			End:        unit.End,
			Annotation: &u,
		})
		cursor = unit.End
	}

	if cursor < len(runes) {
		segs = append(segs, Segment{
			Text:  string(runes[cursor:]),
			Start: cursor,
			End:   len(runes),
		})
	}

	if len(segs) == 0 {
		// Every unit was skipped on an empty text.
		segs = append(segs, Segment{Text: text, Start: 0, End: len(runes)})
	}

	return segs
}

// Project runs Clamp, Merge and Partition in one go.
func Project(text string, annotations []Annotation) []Segment {
	clamped := Clamp(annotations, runeLen(text))
	return Partition(text, Merge(clamped, text))
}
