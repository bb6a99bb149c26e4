package overlay

// Reanchor relocates annotations after the text was edited.
//
// An annotation with anchor text moves to the occurrence of that text whose
// start is closest to its last known start; ties go to the leftmost
// occurrence. When the anchor no longer occurs, the annotation is dropped.
// Annotations without anchor text keep their range.
func Reanchor(annotations []Annotation, text string) []Annotation {
	out := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.Anchor == "" {
			out = append(out, a)
			continue
		}

		idx := occurrences(text, a.Anchor)
		if len(idx) == 0 {
			continue
		}

		best := idx[0]
		bestDist := abs(best - a.Start)
		for _, i := range idx[1:] {
			if d := abs(i - a.Start); d < bestDist {
				best, bestDist = i, d
			}
		}

		a.End = best + runeLen(a.Anchor)
		a.Start = best
		out = append(out, a)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
