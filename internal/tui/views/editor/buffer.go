package editor

import "unicode"

// Buffer is the editable text with a cursor and an optional selection. All
// positions are rune offsets.
type Buffer struct {
	runes  []rune
	cursor int
	anchor int // selection anchor, -1 when nothing is selected
	goalX  int // preferred cell column for vertical movement, -1 when unset
}

// NewBuffer creates a buffer holding text with the cursor at the end.
func NewBuffer(text string) *Buffer {
	r := []rune(text)
	return &Buffer{runes: r, cursor: len(r), anchor: -1, goalX: -1}
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return string(b.runes) }

// Runes returns the underlying runes. The slice must not be modified.
func (b *Buffer) Runes() []rune { return b.runes }

// Len returns the length in runes.
func (b *Buffer) Len() int { return len(b.runes) }

// Cursor returns the cursor offset.
func (b *Buffer) Cursor() int { return b.cursor }

// SetText replaces the contents, keeping the cursor where it was as far as
// the new text allows. The selection is dropped.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.cursor = min(b.cursor, len(b.runes))
	b.anchor = -1
	b.goalX = -1
}

// MoveTo places the cursor at offset. With extend the selection grows from
// the current anchor (or the old cursor); otherwise it is cleared.
func (b *Buffer) MoveTo(offset int, extend bool) {
	offset = min(max(offset, 0), len(b.runes))
	if extend {
		if b.anchor < 0 {
			b.anchor = b.cursor
		}
	} else {
		b.anchor = -1
	}
	b.cursor = offset
}

// Select selects [start, end) and puts the cursor at end.
func (b *Buffer) Select(start, end int) {
	start = min(max(start, 0), len(b.runes))
	end = min(max(end, start), len(b.runes))
	b.anchor = start
	b.cursor = end
	b.goalX = -1
}

// ClearSelection drops the selection without moving the cursor.
func (b *Buffer) ClearSelection() { b.anchor = -1 }

// Selection returns the ordered selection bounds.
func (b *Buffer) Selection() (start, end int, ok bool) {
	if b.anchor < 0 || b.anchor == b.cursor {
		return 0, 0, false
	}
	return min(b.anchor, b.cursor), max(b.anchor, b.cursor), true
}

// SelectedText returns the selected text, or "".
func (b *Buffer) SelectedText() string {
	s, e, ok := b.Selection()
	if !ok {
		return ""
	}
	return string(b.runes[s:e])
}

// Insert replaces the selection (if any) with s and moves the cursor past
// it.
func (b *Buffer) Insert(s string) {
	b.deleteSelection()
	ins := []rune(s)

	out := make([]rune, 0, len(b.runes)+len(ins))
	out = append(out, b.runes[:b.cursor]...)
	out = append(out, ins...)
	out = append(out, b.runes[b.cursor:]...)

	b.runes = out
	b.cursor += len(ins)
	b.goalX = -1
}

// Backspace deletes the selection or the rune before the cursor. It reports
// whether the text changed.
func (b *Buffer) Backspace() bool {
	if b.deleteSelection() {
		return true
	}
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	b.goalX = -1
	return true
}

// Delete deletes the selection or the rune after the cursor.
func (b *Buffer) Delete() bool {
	if b.deleteSelection() {
		return true
	}
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	b.goalX = -1
	return true
}

// DeleteWordBack deletes from the start of the previous word to the cursor.
func (b *Buffer) DeleteWordBack() bool {
	if b.deleteSelection() {
		return true
	}
	start := b.wordStart(b.cursor)
	if start == b.cursor {
		return false
	}
	b.runes = append(b.runes[:start], b.runes[b.cursor:]...)
	b.cursor = start
	b.goalX = -1
	return true
}

// WordLeft returns the offset of the start of the word before offset.
func (b *Buffer) WordLeft() int { return b.wordStart(b.cursor) }

// WordRight returns the offset just past the word after the cursor.
func (b *Buffer) WordRight() int {
	i := b.cursor
	for i < len(b.runes) && !isWord(b.runes[i]) {
		i++
	}
	for i < len(b.runes) && isWord(b.runes[i]) {
		i++
	}
	return i
}

// LineStart returns the offset of the start of the logical line holding
// the cursor.
func (b *Buffer) LineStart() int {
	i := b.cursor
	for i > 0 && b.runes[i-1] != '\n' {
		i--
	}
	return i
}

// LineEnd returns the offset of the end of the logical line holding the
// cursor.
func (b *Buffer) LineEnd() int {
	i := b.cursor
	for i < len(b.runes) && b.runes[i] != '\n' {
		i++
	}
	return i
}

// LineCol returns the 1-based logical line and column of the cursor.
func (b *Buffer) LineCol() (line, col int) {
	line = 1
	lineStart := 0
	for i := 0; i < b.cursor; i++ {
		if b.runes[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, b.cursor - lineStart + 1
}

func (b *Buffer) wordStart(from int) int {
	i := from
	for i > 0 && !isWord(b.runes[i-1]) {
		i--
	}
	for i > 0 && isWord(b.runes[i-1]) {
		i--
	}
	return i
}

func (b *Buffer) deleteSelection() bool {
	s, e, ok := b.Selection()
	b.anchor = -1
	if !ok {
		return false
	}
	b.runes = append(b.runes[:s], b.runes[e:]...)
	b.cursor = s
	b.goalX = -1
	return true
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}
