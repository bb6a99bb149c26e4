// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentTheme is the name of the active theme.
var CurrentTheme string

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
	ColorInfo       lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	InfoStyle          lipgloss.Style
	MutedStyle         lipgloss.Style
	TextStyle          lipgloss.Style
	BannerStyle        lipgloss.Style

	// Navigation bar.
	NavbarStyle        lipgloss.Style
	BrandStyle         lipgloss.Style
	NavItemStyle       lipgloss.Style
	NavItemActiveStyle lipgloss.Style
	NavUserStyle       lipgloss.Style
	HelpStyle          lipgloss.Style

	// Editor overlay.
	CursorStyle       lipgloss.Style
	SelectionStyle    lipgloss.Style
	LineNumberStyle   lipgloss.Style
	StatusBarStyle    lipgloss.Style
	TooltipStyle      lipgloss.Style
	TooltipTitleStyle lipgloss.Style

	// Analysis results sidebar.
	SidebarStyle         lipgloss.Style
	SidebarTitleStyle    lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style

	// Toasts.
	ToastErrorStyle   lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style

	// Tabs on the login view.
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
)

// issue styles indexed by severity name.
var (
	issueStyles      map[string]lipgloss.Style
	issueHoverStyles map[string]lipgloss.Style
)

// Banner is printed above interactive CLI forms.
const Banner = "BRIEF.LY"

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(name string, p Palette) {
	CurrentTheme = name
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorInfo = p.Info

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	InfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	BannerStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)

	NavbarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	BrandStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	NavItemStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	NavItemActiveStyle = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true).Underline(true).Padding(0, 1)
	NavUserStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)

	CursorStyle = lipgloss.NewStyle().Reverse(true)
	SelectionStyle = lipgloss.NewStyle().Background(ColorPrimary).Foreground(ColorBackground)
	LineNumberStyle = lipgloss.NewStyle().Foreground(ColorSurface)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	TooltipStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground).
		Padding(0, 1)
	TooltipTitleStyle = lipgloss.NewStyle().Bold(true)

	SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	SidebarTitleStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	SidebarItemStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	SidebarSelectedStyle = lipgloss.NewStyle().Background(ColorSurface).Foreground(ColorForeground)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(ColorForeground)
	ToastErrorStyle = toast.BorderForeground(ColorError)
	ToastWarningStyle = toast.BorderForeground(ColorWarning)
	ToastInfoStyle = toast.BorderForeground(ColorPrimary)

	TabStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 2)
	TabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 2)

	issueStyles = make(map[string]lipgloss.Style, 3)
	issueHoverStyles = make(map[string]lipgloss.Style, 3)
	for name, c := range map[string]lipgloss.Color{
		"error":   ColorError,
		"warning": ColorWarning,
		"info":    ColorInfo,
	} {
		base := lipgloss.NewStyle().Foreground(c).Underline(true)
		issueStyles[name] = base
		issueHoverStyles[name] = base.Background(Blend(ColorBackground, c, 0.35))
	}
}

// SeverityColor returns the palette color for a severity name.
func SeverityColor(severity string) lipgloss.Color {
	switch severity {
	case "error":
		return ColorError
	case "warning":
		return ColorWarning
	default:
		return ColorInfo
	}
}

// IssueStyle returns the style used to draw text covered by an issue of the
// given severity. Unknown severities are drawn as info.
func IssueStyle(severity string, hovered bool) lipgloss.Style {
	set := issueStyles
	if hovered {
		set = issueHoverStyles
	}
	if s, ok := set[severity]; ok {
		return s
	}
	return set["info"]
}

// Blend mixes a towards b by t (0..1) in Lab space. Colors that fail to
// parse leave a unchanged.
func Blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(DefaultTheme, themes[DefaultTheme])
}
