package editor

import (
	"github.com/colonyops/briefly/internal/core/overlay"
)

// settledMsg is emitted once the text has been quiet for the debounce
// period.
type settledMsg struct {
	text string
}

// analysisMsg carries the result of an analysis request.
type analysisMsg struct {
	gen    uint64
	text   string
	prefix bool
	cursor int
	anns   []overlay.Annotation
	err    error
}

// savedMsg reports the outcome of writing the buffer to disk.
type savedMsg struct {
	path string
	text string
	err  error
}
