// Package overlay turns a text and a set of issue annotations into an ordered
// list of display segments.
//
// # Offsets
//
// All offsets are zero-based Unicode code point offsets into the text, with
// the end offset exclusive. A valid annotation satisfies
// 0 <= Start < End <= len([]rune(text)).
//
// # Pipeline
//
// Every text or annotation change runs the same three steps:
//
//   - Reanchor: relocate annotations by their anchor text after an edit
//   - Merge: fold overlapping annotations into display units
//   - Partition: split the text into plain and annotated segments
//
// Clamp runs before merging so malformed ranges never reach Partition.
// Engine bundles the pipeline with hover/selection state and debounced
// change propagation.
package overlay
