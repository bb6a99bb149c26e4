package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/core/watch"
	"github.com/colonyops/briefly/internal/tui"
)

type EditCmd struct {
	flags   *Flags
	app     *briefly.App
	noWatch bool
}

// NewEditCmd creates a new edit command.
func NewEditCmd(flags *Flags, app *briefly.App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application.
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open a file in the editor",
		UsageText: "briefly edit [options] <file>",
		Description: `Opens the file in the editor view. ctrl+s writes it back.

The file is watched while open; when another program changes it the buffer
is reloaded and existing issues are moved to where their text went.
A missing file starts empty and is created on the first save.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-watch",
				Usage:       "do not reload the file when it changes on disk",
				Destination: &cmd.noWatch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file, got %d", c.Args().Len())
	}
	path := c.Args().First()

	text, exists, err := readOptional(path)
	if err != nil {
		return err
	}

	var watcher *watch.FileWatcher
	if exists && !cmd.noWatch {
		watcher, err = watch.New(path, watch.DefaultSettle)
		if err != nil {
			// editing still works without live reload
			log.Warn().Err(err).Str("path", path).Msg("file watch unavailable")
			watcher = nil
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	return runTUI(ctx, cmd.app, tuiSession{
		path:         path,
		text:         text,
		start:        tui.ViewEditor,
		watcher:      watcher,
		profilerPort: cmd.flags.ProfilerPort,
	})
}

// readOptional reads path, treating a missing file as empty.
func readOptional(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", true, fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(data), true, nil
}
