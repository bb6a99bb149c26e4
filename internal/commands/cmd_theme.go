package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/styles"
	"github.com/colonyops/briefly/internal/printer"
)

type ThemeCmd struct {
	flags *Flags
	app   *briefly.App
}

// NewThemeCmd creates a new theme command.
func NewThemeCmd(flags *Flags, app *briefly.App) *ThemeCmd {
	return &ThemeCmd{flags: flags, app: app}
}

// Register adds the theme command to the application.
func (cmd *ThemeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "theme",
		Usage:     "List themes or switch to one",
		UsageText: "briefly theme [name]",
		Description: `Without arguments lists the built-in themes and marks the active one.
With a name, switches to that theme and remembers it for later sessions.
ctrl+t cycles themes inside the TUI.`,
		ShellComplete: ThemeNameCompleter(),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ThemeCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() == 0 {
		current := cmd.app.Prefs.Theme()
		for _, name := range styles.ThemeNames() {
			p.Printf("%s", themeLine(name, name == current))
		}
		return nil
	}

	name := c.Args().First()
	if err := cmd.app.Prefs.SetTheme(ctx, name); err != nil {
		return fmt.Errorf("%w (available: %v)", err, styles.ThemeNames())
	}
	p.Successf("Theme set to %s", name)
	return nil
}

// themeLine renders a theme name with swatches of its severity colours.
func themeLine(name string, active bool) string {
	marker := "  "
	if active {
		marker = styles.SuccessStyle.Render(styles.IconCheck) + " "
	}

	palette, _ := styles.GetPalette(name)
	swatch := func(c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Render("■")
	}
	return fmt.Sprintf("%s%-20s %s%s%s%s",
		marker, name,
		swatch(palette.Primary), swatch(palette.Info), swatch(palette.Warning), swatch(palette.Error))
}
