package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/printer"
	"github.com/colonyops/briefly/internal/proxy"
)

const shutdownTimeout = 5 * time.Second

type ServeCmd struct {
	flags *Flags
	app   *briefly.App
	addr  string
	pprof bool
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags, app *briefly.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the analyze proxy",
		UsageText: "briefly serve [options]",
		Description: `Serves POST /api/analyze and GET /api/health for browser and editor
integrations. Requests go through the same cached, retrying client as the
TUI and carry the signed-in session's token.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides serve.addr)",
				Sources:     cli.EnvVars("BRIEFLY_SERVE_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "expose /debug/pprof endpoints",
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	addr := cfg.Serve.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := proxy.New(cmd.app.Analysis, proxy.Options{
		Addr:        addr,
		CORSOrigins: cfg.Serve.CORSOrigins,
		Profiling:   cmd.pprof,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	p.Successf("Listening on http://%s (backend %s)", srv.Addr(), cfg.Backend.URL)
	if cmd.pprof {
		p.Infof("Profiling at http://%s/debug/pprof/", srv.Addr())
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown analyze proxy")
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
