package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/colonyops/noticeq/internal/core/logging"
	"github.com/colonyops/noticeq/internal/core/present/termview"
	"github.com/colonyops/noticeq/internal/core/styles"
	"github.com/colonyops/noticeq/internal/feed"
	"github.com/colonyops/noticeq/internal/scheduler"
	"github.com/colonyops/noticeq/pkg/iojson"
	"github.com/colonyops/noticeq/pkg/utils"
)

type PlayCmd struct {
	flags  *Flags
	reader iojson.FileReader[[]feed.Step]

	speed  float64
	format string
	plain  bool
	noWait bool
}

// NewPlayCmd creates a new play command.
func NewPlayCmd(flags *Flags) *PlayCmd {
	return &PlayCmd{
		flags:  flags,
		reader: iojson.FileReader[[]feed.Step]{Decode: feed.ReadScript},
	}
}

// Register adds the play command to the application.
func (cmd *PlayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "play",
		Usage:     "Play a notice script through the scheduler",
		UsageText: "noticeq play [options]",
		Description: `Reads a script of notices, one per line, and feeds it to the scheduler
while rendering the notice stack to the terminal.

Lines are either JSON objects ({"after":"1s","message":"deployed","type":"success"})
or plain text with an optional kind prefix (error: build failed).
Lines starting with # are comments.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.FloatFlag{
				Name:        "speed",
				Usage:       "playback speed multiplier for step delays",
				Value:       1,
				Destination: &cmd.speed,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "summary format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "use ASCII icons",
				Destination: &cmd.plain,
			},
			&cli.BoolFlag{
				Name:        "no-wait",
				Usage:       "stop as soon as the script ends instead of waiting for notices to expire",
				Destination: &cmd.noWait,
			},
		},
		Action: cmd.run,
	})

	return app
}

type playSummary struct {
	Status  scheduler.Status `json:"status"`
	Counts  map[string]int   `json:"counts"`
	History []history.Entry  `json:"history"`
}

func (cmd *PlayCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.format != "text" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", cmd.format)
	}

	steps, err := cmd.reader.Read()
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	cfg := cmd.flags.Config
	router, err := feed.NewRouter(cfg.Rules)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	frames := out
	if cmd.format == "json" {
		frames = c.Root().ErrWriter
	}
	viewOpts := cmd.viewOptions(frames)

	base := log.Logger
	// Console logs would tear live frames; hold them until playback ends.
	if cmd.live(frames) && cmd.flags.LogFile == "" {
		held := &utils.DeferredWriter{Limit: 1 << 20}
		defer func() { _ = held.Flush(c.Root().ErrWriter) }()
		base = base.Output(zerolog.ConsoleWriter{Out: held, TimeFormat: "15:04:05"})
	}
	logger := logging.Sub(base, "play")

	st := newStack(logger)
	st.registry.Register(config.DefaultTarget, termview.New(frames, viewOpts...))

	schedCfg := cfg.SchedulerConfig()
	schedCfg.Target = config.DefaultTarget

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return st.run(gctx) })
	g.Go(func() error {
		defer cancel()

		if err := st.init(gctx, schedCfg); err != nil {
			return err
		}

		player := feed.NewPlayer(st.sched, st.loop, cfg.Feed,
			feed.WithRouter(router),
			feed.WithSpeed(cmd.speed),
			feed.WithLogger(logger),
		)
		if err := player.Play(gctx, steps); err != nil {
			return err
		}

		if cmd.noWait {
			return nil
		}
		return st.waitIdle(gctx)
	})

	if err := ignoreCanceled(g.Wait()); err != nil {
		return err
	}
	st.persist(context.WithoutCancel(ctx), cmd.flags.HistoryFile, logger)

	// The loop has stopped; the scheduler is no longer shared.
	summary := playSummary{
		Status:  st.sched.Status(),
		Counts:  outcomeCounts(st.history),
		History: st.history.Recent(st.history.Len()),
	}
	slices.Reverse(summary.History)

	if cmd.format == "json" {
		return iojson.WriteWith(out, c.Root().ErrWriter, summary)
	}
	return writePlaySummary(out, summary)
}

func (cmd *PlayCmd) viewOptions(out io.Writer) []termview.Option {
	opts := []termview.Option{}
	if cmd.plain {
		opts = append(opts, termview.Plain())
	}
	if f, ok := out.(*os.File); ok {
		opts = append(opts, termview.WithWidth(termview.DetectWidth(f, termview.DefaultWidth)))
	}
	if cmd.live(out) {
		opts = append(opts, termview.Live())
	}
	return opts
}

func (cmd *PlayCmd) live(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && termview.IsTerminal(f)
}

func outcomeCounts(h *history.Log) map[string]int {
	counts := make(map[string]int)
	for state, n := range h.Counts() {
		counts[state.String()] = n
	}
	return counts
}

func writePlaySummary(w io.Writer, s playSummary) error {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.TitleStyle.Render("History"))
	for _, e := range s.History {
		line := fmt.Sprintf("  %s  %-7s %-9s %s", e.At.Format("15:04:05.000"), e.Kind, e.Outcome, e.Message)
		if e.Reason != "" {
			line += fmt.Sprintf(" (%s)", e.Reason)
		}
		_, _ = fmt.Fprintln(w, line)
	}

	_, _ = fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, styles.StatusStyle.Render(fmt.Sprintf(
		"removed %d · evicted %d · rejected %d · withdrawn %d · still queued %d · pinned %d",
		s.Counts["removed"], s.Counts["evicted"], s.Counts["rejected"], s.Counts["withdrawn"],
		s.Status.Queued, s.Status.Persistent,
	)))
	return err
}
