package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/core/styles"
)

// ThemeNameCompleter returns a ShellCompleteFunc that suggests the built-in
// theme names as the positional argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ThemeNameCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		w := cmd.Root().Writer
		for _, name := range styles.ThemeNames() {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}
