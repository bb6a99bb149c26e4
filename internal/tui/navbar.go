package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/briefly/internal/core/styles"
)

const brandName = "BRIEF.LY"

type navTarget int

const (
	navNone navTarget = iota
	navHome
	navChangelog
	navFeedback
	navAccount
)

// navHit is a clickable span [from, to) on the navbar's first line.
type navHit struct {
	from, to int
	target   navTarget
}

// renderNavbar draws the top bar and returns the clickable spans. user is
// the signed-in display name, empty when signed out.
func renderNavbar(width int, active ViewType, user string) (string, []navHit) {
	const pad = 1
	inner := max(width-2*pad, 0)

	var hits []navHit
	x := pad
	add := func(s string, target navTarget) string {
		w := lipgloss.Width(s)
		if target != navNone {
			hits = append(hits, navHit{from: x, to: x + w, target: target})
		}
		x += w
		return s
	}

	item := func(label string, view ViewType) string {
		if active == view {
			return styles.NavItemActiveStyle.Render(label)
		}
		return styles.NavItemStyle.Render(label)
	}

	var left strings.Builder
	left.WriteString(add(styles.BrandStyle.Render(brandName), navHome))
	left.WriteString(add("   ", navNone))
	left.WriteString(add(item("Changelog", ViewChangelog), navChangelog))
	left.WriteString(add(" ", navNone))
	left.WriteString(add(item("Feedback", ViewFeedback), navFeedback))

	var (
		right  string
		action string
	)
	if user != "" {
		right = styles.NavUserStyle.Render(styles.IconUser+user) + " "
		action = styles.NavItemActiveStyle.UnsetUnderline().Render(styles.IconLogout + "Logout")
	} else {
		action = styles.NavItemActiveStyle.UnsetUnderline().Render("Login")
	}
	hint := styles.HelpStyle.Render("ctrl+o")

	rightWidth := lipgloss.Width(right) + lipgloss.Width(action) + lipgloss.Width(hint)
	gap := inner - lipgloss.Width(left.String()) - rightWidth
	if gap < 1 {
		// too narrow for the account section
		bar := styles.NavbarStyle.Width(width).Render(left.String())
		return bar, hits
	}

	x += gap + lipgloss.Width(right)
	accountStart := x
	hits = append(hits, navHit{from: accountStart, to: accountStart + lipgloss.Width(action), target: navAccount})

	line := left.String() + strings.Repeat(" ", gap) + right + action + hint
	return styles.NavbarStyle.Width(width).Render(line), hits
}

func hitTest(hits []navHit, x int) navTarget {
	for _, h := range hits {
		if x >= h.from && x < h.to {
			return h.target
		}
	}
	return navNone
}
