// Package editor implements the annotated text editor view.
//
// # Coordinates
//
// Two coordinate systems are in play:
//
//  1. Offsets: rune (code point) offsets into the text. The buffer cursor,
//     the selection and every annotation use these.
//  2. Cells: (row, col) positions on screen after soft wrapping, where col
//     counts terminal cells. Wide runes take two cells and a tab four.
//
// Layout converts between the two. Mouse input arrives in cells and is
// mapped to an offset before it reaches the overlay engine; rendering walks
// rows and looks up the segment covering each offset.
//
// # Analysis
//
// Edits go to the overlay engine, which re-anchors the current annotations
// immediately and reports the settled text after the debounce period.
// Analysis requests carry a generation number; only the newest request's
// result is applied, re-anchored against the text as it is when the result
// arrives.
package editor
