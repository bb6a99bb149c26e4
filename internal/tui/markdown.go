package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/briefly/internal/core/styles"
)

// renderMarkdown renders md with the active theme, falling back to the
// raw text when glamour fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create markdown renderer")
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		log.Warn().Err(err).Msg("failed to render markdown")
		return md
	}
	return strings.Trim(out, "\n")
}

// markdownCache keeps the last rendering of a document until the width or
// the theme changes.
type markdownCache struct {
	out   string
	width int
	theme string
}

func (c *markdownCache) render(md string, width int) string {
	if c.out != "" && c.width == width && c.theme == styles.CurrentTheme {
		return c.out
	}
	c.out = renderMarkdown(md, width)
	c.width, c.theme = width, styles.CurrentTheme
	return c.out
}
