package overlay

import (
	"sort"
	"time"

	"github.com/colonyops/briefly/pkg/debounce"
)

// DefaultDebounce is the quiet period before a text change is propagated.
const DefaultDebounce = 350 * time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithDebounce sets the quiet period for OnChange propagation.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debouncer = debounce.New(d) }
}

// OnHover registers the hover callback. ok is false when nothing is hovered.
func OnHover(fn func(id int64, ok bool)) Option {
	return func(e *Engine) { e.onHover = fn }
}

// OnActivate registers the callback invoked with the activated unit.
func OnActivate(fn func(Annotation)) Option {
	return func(e *Engine) { e.onActivate = fn }
}

// OnChange registers the debounced text change callback. It is invoked on
// the debounce timer goroutine.
func OnChange(fn func(text string)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// Engine keeps the current text, the active annotations and the derived
// segments in sync. It is not safe for concurrent use; callers drive it
// from a single event loop.
type Engine struct {
	text        string
	textLen     int
	annotations []Annotation
	merged      []Annotation
	segments    []Segment

	hovered     int64
	hasHover    bool
	selected    int64
	hasSelected bool

	debouncer  *debounce.Debouncer
	onHover    func(int64, bool)
	onActivate func(Annotation)
	onChange   func(string)
}

// NewEngine creates an engine holding empty text and no annotations.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{debouncer: debounce.New(DefaultDebounce)}
	for _, opt := range opts {
		opt(e)
	}
	e.recompute()
	return e
}

// SetText replaces the text, re-anchors the active annotations and
// schedules debounced propagation of the new value. Invalid UTF-8 is
// replaced as by ValidText.
func (e *Engine) SetText(text string) {
	text = ValidText(text)
	e.text = text
	e.textLen = runeLen(text)
	e.annotations = Clamp(Reanchor(e.annotations, text), e.textLen)
	e.recompute()

	if e.onChange != nil {
		fn := e.onChange
		e.debouncer.Do(func() { fn(text) })
	}
}

// SetAnnotations replaces the annotation set. Ranges are clamped to the
// current text and annotations without anchor text take it from the text
// they cover.
func (e *Engine) SetAnnotations(annotations []Annotation) {
	clamped := Clamp(annotations, e.textLen)

	var runes []rune
	for i := range clamped {
		if clamped[i].Anchor != "" {
			continue
		}
		if runes == nil {
			runes = []rune(e.text)
		}
		clamped[i].Anchor = sliceRunes(runes, clamped[i].Start, clamped[i].End)
	}

	e.annotations = clamped
	e.recompute()
}

// Text returns the current text.
func (e *Engine) Text() string { return e.text }

// Annotations returns a copy of the active (unmerged) annotations.
func (e *Engine) Annotations() []Annotation {
	out := make([]Annotation, len(e.annotations))
	copy(out, e.annotations)
	return out
}

// Merged returns a copy of the current display units.
func (e *Engine) Merged() []Annotation {
	out := make([]Annotation, len(e.merged))
	copy(out, e.merged)
	return out
}

// Segments returns the current segments. The slice must not be modified.
func (e *Engine) Segments() []Segment { return e.segments }

// Unit returns the display unit with the given id.
func (e *Engine) Unit(id int64) (Annotation, bool) {
	for _, u := range e.merged {
		if u.ID == id {
			return u, true
		}
	}
	return Annotation{}, false
}

// UnitAt returns the display unit covering offset.
func (e *Engine) UnitAt(offset int) (Annotation, bool) {
	i := sort.Search(len(e.merged), func(i int) bool {
		return e.merged[i].End > offset
	})
	if i < len(e.merged) && e.merged[i].Contains(offset) {
		return e.merged[i], true
	}
	return Annotation{}, false
}

// Hover marks the unit with the given id as hovered. Unknown ids clear the
// hover.
func (e *Engine) Hover(id int64) {
	if _, ok := e.Unit(id); !ok {
		e.ClearHover()
		return
	}
	if e.hasHover && e.hovered == id {
		return
	}
	e.hovered, e.hasHover = id, true
	if e.onHover != nil {
		e.onHover(id, true)
	}
}

// ClearHover removes the hover mark.
func (e *Engine) ClearHover() {
	if !e.hasHover {
		return
	}
	e.hovered, e.hasHover = 0, false
	if e.onHover != nil {
		e.onHover(0, false)
	}
}

// Hovered returns the hovered unit id.
func (e *Engine) Hovered() (int64, bool) {
	return e.hovered, e.hasHover
}

// Activate selects the unit with the given id and reports it to the
// OnActivate callback.
func (e *Engine) Activate(id int64) (Annotation, bool) {
	unit, ok := e.Unit(id)
	if !ok {
		return Annotation{}, false
	}
	e.selected, e.hasSelected = id, true
	if e.onActivate != nil {
		e.onActivate(unit)
	}
	return unit, true
}

// Selected returns the activated unit, if it still exists.
func (e *Engine) Selected() (Annotation, bool) {
	if !e.hasSelected {
		return Annotation{}, false
	}
	return e.Unit(e.selected)
}

// Dismiss clears the activated unit.
func (e *Engine) Dismiss() {
	e.selected, e.hasSelected = 0, false
}

// Close cancels any pending change propagation. The engine stays usable
// but a change scheduled before Close never fires.
func (e *Engine) Close() {
	e.debouncer.Stop()
}

func (e *Engine) recompute() {
	e.merged = Merge(e.annotations, e.text)
	e.segments = Partition(e.text, e.merged)

	if e.hasHover {
		if _, ok := e.Unit(e.hovered); !ok {
			e.ClearHover()
		}
	}
	if e.hasSelected {
		if _, ok := e.Unit(e.selected); !ok {
			e.Dismiss()
		}
	}
}
