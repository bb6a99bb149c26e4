package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor bindings. Text entry keys are not listed.
type KeyMap struct {
	Analyze     key.Binding
	NextIssue   key.Binding
	PrevIssue   key.Binding
	Inspect     key.Binding
	Dismiss     key.Binding
	Sidebar     key.Binding
	Save        key.Binding
	SelectLeft  key.Binding
	SelectRight key.Binding
	SelectUp    key.Binding
	SelectDown  key.Binding
	WordLeft    key.Binding
	WordRight   key.Binding
	DeleteWord  key.Binding
	LineStart   key.Binding
	LineEnd     key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

// DefaultKeyMap returns the editor bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Analyze:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "analyze")),
		NextIssue:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next issue")),
		PrevIssue:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev issue")),
		Inspect:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "inspect issue")),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Sidebar:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "results")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SelectLeft:  key.NewBinding(key.WithKeys("shift+left")),
		SelectRight: key.NewBinding(key.WithKeys("shift+right")),
		SelectUp:    key.NewBinding(key.WithKeys("shift+up")),
		SelectDown:  key.NewBinding(key.WithKeys("shift+down")),
		WordLeft:    key.NewBinding(key.WithKeys("alt+left", "ctrl+left", "alt+b")),
		WordRight:   key.NewBinding(key.WithKeys("alt+right", "ctrl+right", "alt+f")),
		DeleteWord:  key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
		LineStart:   key.NewBinding(key.WithKeys("home", "ctrl+a")),
		LineEnd:     key.NewBinding(key.WithKeys("end", "ctrl+e")),
		PageUp:      key.NewBinding(key.WithKeys("pgup")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.NextIssue, k.Inspect, k.Sidebar, k.Save}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Analyze, k.Save, k.Sidebar},
		{k.NextIssue, k.PrevIssue, k.Inspect, k.Dismiss},
	}
}
