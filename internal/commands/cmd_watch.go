package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/logging"
	"github.com/colonyops/noticeq/internal/feed"
	"github.com/colonyops/noticeq/internal/tui"
	"github.com/colonyops/noticeq/pkg/profiler"
)

// watchTarget is registered next to the default target so configs may
// name either.
const watchTarget = "tui"

type WatchCmd struct {
	flags        *Flags
	plain        bool
	profilerPort int
}

// NewWatchCmd creates a new watch command.
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Show notices from reminders and stdin in an interactive overlay",
		UsageText: "some-command | noticeq watch [options]",
		Description: `Runs the scheduler behind a full screen overlay. Notices arrive from the
configured cron reminders and, when stdin is piped, from input lines in the
same format accepted by 'noticeq play'.

The config file is watched; saving it re-initializes the scheduler.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "use ASCII icons",
				Destination: &cmd.plain,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("NOTICEQ_PROFILER_PORT"),
				Destination: &cmd.profilerPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	logger := logging.Sub(log.Logger, "watch")

	router, err := feed.NewRouter(cfg.Rules)
	if err != nil {
		return err
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort, logging.Sub(logger, "profiler"))
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
	}

	st := newStack(logger)

	port := tui.NewPort()
	st.registry.Register(config.DefaultTarget, port)
	st.registry.Register(watchTarget, port)
	st.onChange(port.PushStatus)

	model := tui.New(tui.Options{
		Port:    port,
		Target:  st.sched,
		Poster:  st.loop,
		History: st.history,
		Plain:   cmd.plain,
		Log:     logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	piped := !term.IsTerminal(int(os.Stdin.Fd()))
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}
	if piped {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	program := tea.NewProgram(model, progOpts...)

	reminders, err := feed.NewReminders(cfg.Reminders, st.sched, st.loop, router, logging.Sub(logger, "reminders"))
	if err != nil {
		return err
	}

	g.Go(func() error { return st.run(gctx) })
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := st.init(gctx, cfg.SchedulerConfig()); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	reminders.Start()
	defer reminders.Stop()
	logger.Debug().Int("reminders", reminders.Len()).Msg("reminders scheduled")

	if watcher := cmd.watchConfig(st, logger); watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	// Reading stdin cannot be interrupted, so the stream is left running
	// when the program exits.
	if piped {
		player := feed.NewPlayer(st.sched, st.loop, cfg.Feed,
			feed.WithRouter(router),
			feed.WithLogger(logger),
		)
		go func() {
			if err := player.Stream(gctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn().Err(err).Msg("stdin stream stopped")
				return
			}
			logger.Debug().Msg("stdin closed")
		}()
	}

	err = ignoreCanceled(g.Wait())
	st.persist(context.WithoutCancel(ctx), cmd.flags.HistoryFile, logger)
	return err
}

// watchConfig re-initializes the scheduler when the config file changes.
// Rules and reminders keep the values read at startup.
func (cmd *WatchCmd) watchConfig(st *stack, logger zerolog.Logger) *config.Watcher {
	if cmd.flags.ConfigPath == "" {
		return nil
	}

	w, err := config.NewWatcher(cmd.flags.ConfigPath, logging.Sub(logger, "config"), func(c *config.Config) {
		next := c.SchedulerConfig()
		if err := st.loop.Post(func() { st.sched.Init(next) }); err != nil {
			logger.Debug().Err(err).Msg("config reload after shutdown")
		}
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", cmd.flags.ConfigPath).Msg("config file not watched")
		return nil
	}
	return w
}
