package overlay

// Clamp limits every range to [0, textLen] and drops ranges that are empty
// or inverted afterwards. The input is not modified.
func Clamp(annotations []Annotation, textLen int) []Annotation {
	out := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		a.Start = clamp(a.Start, 0, textLen)
		a.End = clamp(a.End, 0, textLen)
		if a.Start >= a.End {
			continue
		}
		out = append(out, a)
	}
	return out
}
