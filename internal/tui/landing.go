package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/briefly/internal/core/styles"
)

const (
	typeInterval     = 200 * time.Millisecond
	carouselInterval = 3 * time.Second
	tagline          = "AI-powered service for technical task validation"
)

var landingBullets = []string{
	"Instant grammar and style corrections",
	"Context-aware suggestions for clarity",
	"Technical writing optimization",
	"Real-time validation as you type",
	"Multi-language support",
	"Industry-standard compliance checks",
}

const landingBlurb = `Write or paste a task description and **BRIEF.LY** marks what needs
attention while you type. Hover an underlined span to highlight it, click
it to read the finding, or open the results sidebar with ` + "`ctrl+b`" + `.`

type typeTickMsg struct{}

type carouselTickMsg struct{}

// landingView is the start screen: the brand typed out one letter at a
// time above a rotating list of features.
type landingView struct {
	typed   int
	bullet  int
	running bool

	width, height int

	blurb markdownCache
}

func newLandingView() *landingView {
	return &landingView{}
}

// Start begins the animations unless they already run.
func (v *landingView) Start() tea.Cmd {
	if v.running {
		return nil
	}
	v.running = true
	cmds := []tea.Cmd{carouselTick()}
	if v.typed < len(brandName) {
		cmds = append(cmds, typeTick())
	}
	return tea.Batch(cmds...)
}

// Stop lets the tick chains run out.
func (v *landingView) Stop() { v.running = false }

func typeTick() tea.Cmd {
	return tea.Tick(typeInterval, func(time.Time) tea.Msg { return typeTickMsg{} })
}

func carouselTick() tea.Cmd {
	return tea.Tick(carouselInterval, func(time.Time) tea.Msg { return carouselTickMsg{} })
}

func (v *landingView) Update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case typeTickMsg:
		if !v.running || v.typed >= len(brandName) {
			return nil
		}
		v.typed++
		if v.typed < len(brandName) {
			return typeTick()
		}
	case carouselTickMsg:
		if !v.running {
			return nil
		}
		v.bullet = (v.bullet + 1) % len(landingBullets)
		return carouselTick()
	}
	return nil
}

func (v *landingView) SetSize(width, height int) {
	v.width, v.height = width, height
}

// Typed reports whether the brand animation finished.
func (v *landingView) Typed() bool { return v.typed >= len(brandName) }

func (v *landingView) View() string {
	title := styles.BrandStyle.Render(spaced(brandName[:v.typed]))
	if !v.Typed() {
		title += styles.CursorStyle.Render(" ")
	}

	progress := make([]string, len(landingBullets))
	for i := range landingBullets {
		if i == v.bullet {
			progress[i] = styles.TextStyle.Render("━━━")
		} else {
			progress[i] = styles.MutedStyle.Render("─")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		styles.MutedStyle.Render(tagline),
		"",
		styles.TabActiveStyle.Render("Start Validating")+styles.HelpStyle.Render("enter"),
		"",
		styles.TextStyle.Render("• "+landingBullets[v.bullet]),
		strings.Join(progress, " "),
		"",
		v.renderBlurb(),
	)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

func (v *landingView) renderBlurb() string {
	return v.blurb.render(landingBlurb, min(max(v.width-8, 20), 72))
}

// spaced puts a space between letters so the brand reads as a heading.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
