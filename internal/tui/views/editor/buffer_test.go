package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_InsertAndDelete(t *testing.T) {
	b := NewBuffer("héllo")
	assert.Equal(t, 5, b.Cursor())

	b.Insert(" wörld")
	assert.Equal(t, "héllo wörld", b.Text())
	assert.Equal(t, 11, b.Cursor())

	require.True(t, b.Backspace())
	assert.Equal(t, "héllo wörl", b.Text())

	b.MoveTo(0, false)
	require.True(t, b.Delete())
	assert.Equal(t, "éllo wörl", b.Text())
	assert.False(t, b.Backspace(), "nothing before the cursor")

	b.MoveTo(b.Len(), false)
	assert.False(t, b.Delete(), "nothing after the cursor")
}

func TestBuffer_Selection(t *testing.T) {
	b := NewBuffer("the quick fox")
	b.MoveTo(4, false)
	b.MoveTo(9, true)

	start, end, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 9, end)
	assert.Equal(t, "quick", b.SelectedText())

	b.Insert("slow")
	assert.Equal(t, "the slow fox", b.Text())
	_, _, ok = b.Selection()
	assert.False(t, ok)

	b.Select(4, 8)
	require.True(t, b.Backspace())
	assert.Equal(t, "the  fox", b.Text())
	assert.Equal(t, 4, b.Cursor())
}

func TestBuffer_SelectBackwards(t *testing.T) {
	b := NewBuffer("abcdef")
	b.MoveTo(5, false)
	b.MoveTo(2, true)

	start, end, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestBuffer_SelectClamps(t *testing.T) {
	b := NewBuffer("abc")
	b.Select(-3, 10)
	assert.Equal(t, "abc", b.SelectedText())
	assert.Equal(t, 3, b.Cursor())
}

func TestBuffer_WordMotion(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		left   int
		right  int
	}{
		{name: "middle of word", text: "hello world", cursor: 8, left: 6, right: 11},
		{name: "after space", text: "hello world", cursor: 6, left: 0, right: 11},
		{name: "at start", text: "hello world", cursor: 0, left: 0, right: 5},
		{name: "punctuation", text: "one, two", cursor: 5, left: 0, right: 8},
		{name: "apostrophe", text: "don't stop", cursor: 5, left: 0, right: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			b.MoveTo(tt.cursor, false)
			assert.Equal(t, tt.left, b.WordLeft())
			assert.Equal(t, tt.right, b.WordRight())
		})
	}
}

func TestBuffer_DeleteWordBack(t *testing.T) {
	b := NewBuffer("alpha beta  ")
	require.True(t, b.DeleteWordBack())
	assert.Equal(t, "alpha ", b.Text())
	require.True(t, b.DeleteWordBack())
	assert.Equal(t, "", b.Text())
	assert.False(t, b.DeleteWordBack())
}

func TestBuffer_Lines(t *testing.T) {
	b := NewBuffer("first\nsecond line\nthird")
	b.MoveTo(9, false)

	assert.Equal(t, 6, b.LineStart())
	assert.Equal(t, 17, b.LineEnd())

	line, col := b.LineCol()
	assert.Equal(t, 2, line)
	assert.Equal(t, 4, col)
}

func TestBuffer_SetTextKeepsCursorInRange(t *testing.T) {
	b := NewBuffer("a long piece of text")
	b.Select(2, 6)
	b.SetText("short")

	assert.Equal(t, 5, b.Cursor())
	_, _, ok := b.Selection()
	assert.False(t, ok)
}
