package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/briefly/internal/core/overlay"
	"github.com/colonyops/briefly/internal/core/styles"
)

// SidebarWidth is the width of the results sidebar including its border.
const SidebarWidth = 38

const sidebarHeaderLines = 3

type sidebarItem struct {
	first, last int // content lines, inclusive
	ann         overlay.Annotation
}

// sidebar lists the active annotations.
type sidebar struct {
	vp     viewport.Model
	items  []sidebarItem
	count  int
	width  int
	height int
}

func newSidebar() *sidebar {
	return &sidebar{vp: viewport.New(SidebarWidth, 1)}
}

func (s *sidebar) setSize(width, height int) {
	s.width, s.height = width, height
	// border and padding take three columns
	s.vp.Width = max(width-3, 1)
	s.vp.Height = max(height-sidebarHeaderLines, 1)
}

// setAnnotations renders anns sorted by start. highlight marks the items
// belonging to the hovered or activated unit.
func (s *sidebar) setAnnotations(anns []overlay.Annotation, highlight func(overlay.Annotation) bool) {
	anns = slices.Clone(anns)
	slices.SortStableFunc(anns, func(a, b overlay.Annotation) int { return a.Start - b.Start })

	s.count = len(anns)
	s.items = s.items[:0]

	if len(anns) == 0 {
		s.vp.SetContent(strings.Join([]string{
			"",
			styles.MutedStyle.Render("No issues found yet"),
			styles.MutedStyle.Render("Start typing to analyze your text"),
		}, "\n"))
		return
	}

	inner := s.vp.Width
	var lines []string
	for _, a := range anns {
		block := renderSidebarItem(a, inner)
		if highlight != nil && highlight(a) {
			block = styles.SidebarSelectedStyle.Width(inner).Render(block)
		}

		first := len(lines)
		lines = append(lines, strings.Split(block, "\n")...)
		s.items = append(s.items, sidebarItem{first: first, last: len(lines) - 1, ann: a})
		lines = append(lines, "")
	}
	s.vp.SetContent(strings.Join(lines, "\n"))
}

func renderSidebarItem(a overlay.Annotation, width int) string {
	sev := a.Severity.String()
	color := styles.SeverityColor(sev)

	title := severityIcon(a.Severity) + " " + capitalize(sev)
	if a.Category != "" {
		title += " · " + a.Category
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(title),
		styles.SidebarItemStyle.Width(width).Render(a.Message),
		styles.MutedStyle.Render(fmt.Sprintf("Position: %d-%d", a.Start, a.End)),
	)
}

// annotationAt returns the annotation drawn at line y of the sidebar.
func (s *sidebar) annotationAt(y int) (overlay.Annotation, bool) {
	line := y - sidebarHeaderLines + s.vp.YOffset
	for _, it := range s.items {
		if line >= it.first && line <= it.last {
			return it.ann, true
		}
	}
	return overlay.Annotation{}, false
}

func (s *sidebar) scroll(delta int) {
	if delta > 0 {
		s.vp.ScrollDown(delta)
	} else {
		s.vp.ScrollUp(-delta)
	}
}

func (s *sidebar) view() string {
	count := fmt.Sprintf("%d issues", s.count)
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.SidebarTitleStyle.Render("Analysis Results"),
		styles.MutedStyle.Render(count),
		"",
	)

	return styles.SidebarStyle.
		Width(s.width - 1).
		Height(s.height).
		Render(header + "\n" + s.vp.View())
}

func severityIcon(s overlay.Severity) string {
	switch s {
	case overlay.SeverityError:
		return styles.IconError
	case overlay.SeverityWarning:
		return styles.IconWarning
	default:
		return styles.IconInfo
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
