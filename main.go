package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/briefly/internal/briefly"
	"github.com/colonyops/briefly/internal/commands"
	"github.com/colonyops/briefly/internal/core/analysis"
	"github.com/colonyops/briefly/internal/core/auth"
	"github.com/colonyops/briefly/internal/core/backend"
	"github.com/colonyops/briefly/internal/core/config"
	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/internal/core/prefs"
	"github.com/colonyops/briefly/internal/data/db"
	"github.com/colonyops/briefly/internal/data/stores"
	"github.com/colonyops/briefly/internal/data/sweep"
	"github.com/colonyops/briefly/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

const sweepInterval = 5 * time.Minute

func buildInfo() briefly.Build {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	if len(c) > 7 {
		c = c[:7]
	}

	return briefly.Build{Version: v, Commit: c, Date: d}
}

func build() string {
	b := buildInfo()
	return fmt.Sprintf("%s (%s) %s", b.Version, b.Commit, b.Date)
}

// openStore opens the sqlite database, moving a corrupted file aside once.
// When the database cannot be opened at all the returned store keeps state
// in memory for this run only.
func openStore(cfg *config.Config) (kv.KV, *db.DB) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err != nil && stores.IsCorruptionError(err) {
		backup, recErr := stores.RecoverFromCorruption(cfg.DataDir)
		if recErr != nil {
			log.Error().Err(recErr).Msg("failed to recover corrupted database")
		} else {
			log.Warn().Str("backup", backup).Msg("database was corrupted; moved aside and starting fresh")
			database, err = db.Open(cfg.DataDir, opts)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("open database failed; sessions and preferences will not be saved")
		return kv.NewMemory(), nil
	}

	return stores.NewKVStore(database), database
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		app         = &briefly.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "briefly",
		Usage:     "Check your writing from the terminal",
		UsageText: "briefly [global options] command [command options]",
		Description: `BRIEF.LY sends your text to the analysis service and highlights the
issues it finds in place: hover or click an underlined span to see what is
wrong, and keep typing while results follow your edits.

Run 'briefly' with no arguments to open the interactive editor.
Run 'briefly check <glob>' to analyze files from scripts and CI.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("BRIEFLY_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/briefly.log)",
				Sources:     cli.EnvVars("BRIEFLY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BRIEFLY_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("BRIEFLY_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns the terminal
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile(flags.DataDir)
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// config validate reports problems itself instead of failing here
			if c.Args().First() == "config" {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			store, opened := openStore(cfg)
			database = opened
			if kvStore, ok := store.(*stores.KVStore); ok {
				sweepCtx, cancel := context.WithCancel(context.Background())
				sweepCancel = cancel
				go sweep.Start(sweepCtx, kvStore, sweepInterval)
			}

			preferences, err := prefs.Load(ctx, store, cfg.TUI.Theme)
			if err != nil {
				return ctx, fmt.Errorf("load preferences: %w", err)
			}

			authState := auth.NewState(store)
			if err := authState.Init(ctx); err != nil {
				// a broken session only means signing in again
				log.Warn().Err(err).Msg("failed to restore session")
			}

			transport := backend.New(backend.Options{
				BaseURL:    cfg.Backend.URL,
				Timeout:    cfg.Backend.Timeout,
				Retries:    cfg.Backend.Retries,
				RetryDelay: cfg.Backend.RetryDelay,
				Tokens:     authState,
			})

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *briefly.NewApp(
				cfg,
				store,
				preferences,
				auth.NewService(auth.NewClient(transport), authState),
				transport,
				analysis.NewClient(transport, cfg.Backend.CacheTTL),
				buildInfo(),
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop background sweep
			if sweepCancel != nil {
				sweepCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)

	root = commands.NewEditCmd(flags, app).Register(root)
	root = commands.NewCheckCmd(flags, app).Register(root)
	root = commands.NewServeCmd(flags, app).Register(root)
	root = commands.NewAuthCmd(flags, app).Register(root)
	root = commands.NewThemeCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'briefly --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
