package doctor

import (
	"context"
	"os"

	"golang.org/x/term"
)

// Package-level variables to allow test overrides.
var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	getenvFunc     = os.Getenv
)

// TerminalCheck verifies the terminal can host the editor.
type TerminalCheck struct{}

// NewTerminalCheck creates a new terminal check.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// the editor needs a tty, check and serve do not
	if isTerminalFunc() {
		result.Items = append(result.Items, CheckItem{
			Label:  "stdout",
			Status: StatusPass,
			Detail: "interactive",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "stdout",
			Status: StatusWarn,
			Detail: "not a terminal (the editor is unavailable)",
		})
	}

	switch termName := getenvFunc("TERM"); termName {
	case "":
		result.Items = append(result.Items, CheckItem{
			Label:  "TERM",
			Status: StatusWarn,
			Detail: "not set",
		})
	case "dumb":
		result.Items = append(result.Items, CheckItem{
			Label:  "TERM",
			Status: StatusWarn,
			Detail: "dumb terminal, highlights will not render",
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "TERM",
			Status: StatusPass,
			Detail: termName,
		})
	}

	if getenvFunc("NO_COLOR") != "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "NO_COLOR",
			Status: StatusWarn,
			Detail: "set, issue severities are shown without colour",
		})
	}

	return result
}
