// Command docgen generates CLI reference documentation from the briefly
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	app := &briefly.App{}

	root := &cli.Command{
		Name:      "briefly",
		Usage:     "Check your writing from the terminal",
		UsageText: "briefly [global options] command [command options]",
		Description: `BRIEF.LY sends your text to the analysis service and highlights the
issues it finds in place: hover or click an underlined span to see what is
wrong, and keep typing while results follow your edits.

Run 'briefly' with no arguments to open the interactive editor.
Run 'briefly check <glob>' to analyze files from scripts and CI.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("BRIEFLY_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/briefly.log)",
				Sources: cli.EnvVars("BRIEFLY_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("BRIEFLY_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("BRIEFLY_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewEditCmd(flags, app).Register(root)
	root = commands.NewCheckCmd(flags, app).Register(root)
	root = commands.NewServeCmd(flags, app).Register(root)
	root = commands.NewAuthCmd(flags, app).Register(root)
	root = commands.NewThemeCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
