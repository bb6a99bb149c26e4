package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/watch"
	"github.com/colonyops/briefly/internal/tui"
	"github.com/colonyops/briefly/pkg/profiler"
)

// errNoTTY is returned when the TUI is started without a terminal.
var errNoTTY = errors.New("briefly needs an interactive terminal; use 'briefly check' for files and pipes")

type TuiCmd struct {
	flags *Flags
	app   *briefly.App
	text  string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *briefly.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "text",
			Usage:       "initial editor text (opens the editor directly)",
			Destination: &cmd.text,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("BRIEFLY_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	start := tui.ViewLanding
	if cmd.text != "" {
		start = tui.ViewEditor
	}
	return runTUI(ctx, cmd.app, tuiSession{
		text:         cmd.text,
		start:        start,
		profilerPort: cmd.flags.ProfilerPort,
	})
}

// tuiSession describes what the TUI opens with.
type tuiSession struct {
	path    string
	text    string
	start   tui.ViewType
	watcher *watch.FileWatcher

	profilerPort int
}

func runTUI(ctx context.Context, app *briefly.App, s tuiSession) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNoTTY
	}

	if s.profilerPort > 0 {
		profServer := profiler.New(s.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	m := tui.New(ctx, tui.Options{
		Config:   app.Config,
		Auth:     app.Auth,
		Themes:   app.Prefs,
		Analyzer: app.Analysis,
		Notify:   app.Notify,
		Drafts:   app.Drafts,
		Watcher:  s.watcher,
		Path:     s.path,
		Text:     s.text,
		Start:    s.start,
		Build: tui.BuildInfo{
			Version: app.Build.Version,
			Commit:  app.Build.Commit,
			Date:    app.Build.Date,
		},
	})

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	final, err := p.Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	log.Debug().Msg("tui exited")
	return nil
}
