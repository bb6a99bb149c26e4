package overlay

import "sort"

// MessageSeparator joins the messages of merged annotations.
const MessageSeparator = "; "

// Merge folds overlapping annotations into non-overlapping display units,
// ordered by start offset. Annotations that merely touch stay separate.
//
// A merged unit spans the union of its members, carries the highest
// severity and the highest id, joins member messages with MessageSeparator
// and takes its anchor from text over the merged range.
func Merge(annotations []Annotation, text string) []Annotation {
	if len(annotations) == 0 {
		return []Annotation{}
	}

	sorted := make([]Annotation, len(annotations))
	copy(sorted, annotations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var runes []rune
	out := make([]Annotation, 0, len(sorted))
	for _, a := range sorted {
		if len(out) == 0 {
			out = append(out, a)
			continue
		}

		last := &out[len(out)-1]
		if a.Start >= last.End {
			out = append(out, a)
			continue
		}

		if runes == nil {
			runes = []rune(text)
		}

		merged := Annotation{
			ID:       max(last.ID, a.ID),
			Start:    min(last.Start, a.Start),
			End:      max(last.End, a.End),
			Severity: HigherSeverity(last.Severity, a.Severity),
			Message:  last.Message + MessageSeparator + a.Message,
			Category: mergeCategory(last.Category, a.Category),
		}
		merged.Anchor = sliceRunes(runes, merged.Start, merged.End)
		*last = merged
	}

	return out
}

func mergeCategory(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return a + MessageSeparator + b
	}
}
