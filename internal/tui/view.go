package tui

const unknownViewType = "unknown"

// ViewType represents which view is active.
type ViewType int

const (
	ViewLanding ViewType = iota
	ViewLogin
	ViewEditor
	ViewChangelog
	ViewFeedback
)

// String returns the lowercase name of the view.
func (v ViewType) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewLogin:
		return "login"
	case ViewEditor:
		return "editor"
	case ViewChangelog:
		return "changelog"
	case ViewFeedback:
		return "feedback"
	default:
		return unknownViewType
	}
}
