package overlay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu     sync.Mutex
	values []string
}

func (r *changeRecorder) record(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, text)
}

func (r *changeRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestEngine_InitialState(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	assert.Empty(t, e.Text())
	assert.Empty(t, e.Annotations())
	require.Len(t, e.Segments(), 1)
	assert.Equal(t, "", e.Segments()[0].Text)
	assert.False(t, e.Segments()[0].Annotated())
}

func TestEngine_SetAnnotations(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetText("abcdef")
	e.SetAnnotations([]Annotation{
		{ID: 1, Start: 1, End: 3, Severity: SeverityInfo, Message: "one"},
		{ID: 2, Start: 2, End: 5, Severity: SeverityError, Message: "two"},
		{ID: 3, Start: 4, End: 40, Severity: SeverityWarning, Message: "clamped"},
	})

	anns := e.Annotations()
	require.Len(t, anns, 3)
	assert.Equal(t, "bc", anns[0].Anchor)
	assert.Equal(t, 6, anns[2].End)

	merged := e.Merged()
	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].Start)
	assert.Equal(t, 6, merged[0].End)
	assert.Equal(t, SeverityError, merged[0].Severity)
	assert.Equal(t, int64(3), merged[0].ID)

	texts := segmentTexts(e.Segments())
	assert.Equal(t, []string{"a", "bcdef"}, texts)
}

func TestEngine_SetTextReanchors(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetText("teh cat sat")
	e.SetAnnotations([]Annotation{
		{ID: 1, Start: 0, End: 3, Severity: SeverityError, Message: "spelling"},
		{ID: 2, Start: 8, End: 11, Severity: SeverityInfo, Message: "verb"},
	})

	e.SetText("so teh cat sat")
	anns := e.Annotations()
	require.Len(t, anns, 2)
	assert.Equal(t, 3, anns[0].Start)
	assert.Equal(t, 6, anns[0].End)
	assert.Equal(t, 11, anns[1].Start)

	// fixing the typo removes the annotation
	e.SetText("so the cat sat")
	anns = e.Annotations()
	require.Len(t, anns, 1)
	assert.Equal(t, int64(2), anns[0].ID)
	assert.Equal(t, "so the cat sat", joinSegments(e.Segments()))
}

func TestEngine_SetTextInvalidUTF8(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetText("ab\xffcd")
	e.SetAnnotations([]Annotation{{ID: 1, Start: 3, End: 5, Severity: SeverityWarning}})

	assert.Equal(t, "ab\uFFFDcd", e.Text())
	assert.Equal(t, "ab\uFFFDcd", joinSegments(e.Segments()))
	assert.Equal(t, []string{"ab\uFFFD", "cd"}, segmentTexts(e.Segments()))
}

func TestEngine_UnitAt(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetText("one two three")
	e.SetAnnotations([]Annotation{
		{ID: 10, Start: 0, End: 3},
		{ID: 20, Start: 8, End: 13},
	})

	tests := []struct {
		offset int
		want   int64
		ok     bool
	}{
		{0, 10, true},
		{2, 10, true},
		{3, 0, false},
		{7, 0, false},
		{8, 20, true},
		{12, 20, true},
		{13, 0, false},
		{-1, 0, false},
	}

	for _, tt := range tests {
		got, ok := e.UnitAt(tt.offset)
		assert.Equal(t, tt.ok, ok, "offset %d", tt.offset)
		if tt.ok {
			assert.Equal(t, tt.want, got.ID, "offset %d", tt.offset)
		}
	}
}

func TestEngine_HoverAndActivate(t *testing.T) {
	type hoverEvent struct {
		id int64
		ok bool
	}
	var (
		hovers    []hoverEvent
		activated []Annotation
	)

	e := NewEngine(
		OnHover(func(id int64, ok bool) { hovers = append(hovers, hoverEvent{id, ok}) }),
		OnActivate(func(a Annotation) { activated = append(activated, a) }),
	)
	defer e.Close()

	e.SetText("alpha beta")
	e.SetAnnotations([]Annotation{
		{ID: 1, Start: 0, End: 5, Message: "first"},
		{ID: 2, Start: 6, End: 10, Message: "second"},
	})

	e.Hover(1)
	e.Hover(1)
	e.Hover(2)
	e.Hover(99)

	assert.Equal(t, []hoverEvent{{1, true}, {2, true}, {0, false}}, hovers)

	_, ok := e.Hovered()
	assert.False(t, ok)

	unit, ok := e.Activate(2)
	require.True(t, ok)
	assert.Equal(t, "second", unit.Message)
	require.Len(t, activated, 1)

	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)

	_, ok = e.Activate(42)
	assert.False(t, ok)
	assert.Len(t, activated, 1)

	e.Dismiss()
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestEngine_StaleSelectionCleared(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	e.SetText("bad word")
	e.SetAnnotations([]Annotation{{ID: 1, Start: 0, End: 3}})
	e.Hover(1)
	_, ok := e.Activate(1)
	require.True(t, ok)

	e.SetText("good word")

	_, ok = e.Hovered()
	assert.False(t, ok)
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestEngine_OnChangeDebounced(t *testing.T) {
	rec := &changeRecorder{}
	e := NewEngine(WithDebounce(30*time.Millisecond), OnChange(rec.record))
	defer e.Close()

	for _, s := range []string{"h", "he", "hel", "hell", "hello"} {
		e.SetText(s)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	// no late duplicate
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"hello"}, rec.snapshot())
}

func TestEngine_CloseCancelsPendingChange(t *testing.T) {
	rec := &changeRecorder{}
	e := NewEngine(WithDebounce(20*time.Millisecond), OnChange(rec.record))

	e.SetText("draft")
	e.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
