package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/briefly/internal/core/overlay"
	"github.com/colonyops/briefly/internal/core/styles"
)

const maxTooltipWidth = 48

// renderTooltip draws the popup for an activated unit. Merged units carry
// every message joined by the merge separator.
func renderTooltip(u overlay.Annotation, maxWidth int) string {
	width := min(maxTooltipWidth, max(maxWidth-4, 12))

	sev := u.Severity.String()
	title := severityIcon(u.Severity) + " " + capitalize(sev)
	if u.Category != "" {
		title += " · " + u.Category
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TooltipTitleStyle.Foreground(styles.SeverityColor(sev)).Render(title),
		lipgloss.NewStyle().Width(width).Render(u.Message),
		styles.MutedStyle.Render("esc to dismiss"),
	)
	return styles.TooltipStyle.Render(body)
}
