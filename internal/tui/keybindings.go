package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings handled by the root model in every view.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Theme     key.Binding
	Changelog key.Binding
	Feedback  key.Binding
	Account   key.Binding
	Back      key.Binding
	Start     key.Binding
	SwitchTab key.Binding
}

// DefaultKeyMap returns the global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Theme:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "next theme")),
		Changelog: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "changelog")),
		Feedback:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "feedback")),
		Account:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "login/logout")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Start:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start validating")),
		SwitchTab: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
	}
}

// Global returns the bindings shown in the help dialog's first section.
func (k KeyMap) Global() []key.Binding {
	return []key.Binding{k.Help, k.Theme, k.Changelog, k.Feedback, k.Account, k.Back, k.Quit}
}
