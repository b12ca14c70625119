package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/colonyops/noticeq/internal/core/styles"
	"github.com/colonyops/noticeq/internal/store/jsonfile"
	"github.com/colonyops/noticeq/pkg/iojson"
)

type HistoryCmd struct {
	flags  *Flags
	format string
	limit  int
	clear  bool
}

// NewHistoryCmd creates a new history command.
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "history",
		Usage:       "Show notices from previous runs",
		UsageText:   "noticeq history [options]",
		Description: "Lists the notices recorded by play and watch, newest first, with how each one ended.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum entries to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete the stored history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.HistoryFile == "" {
		return fmt.Errorf("history is disabled (no --history-file)")
	}

	store := jsonfile.NewHistoryStore(cmd.flags.HistoryFile)
	out := c.Root().Writer

	if cmd.clear {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		_, err := fmt.Fprintf(out, "Cleared %s\n", store.Path())
		return err
	}

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if cmd.limit > 0 && len(entries) > cmd.limit {
		entries = entries[:cmd.limit]
	}

	if cmd.format == "json" {
		if entries == nil {
			entries = []history.Entry{}
		}
		return iojson.WriteWith(out, c.Root().ErrWriter, entries)
	}
	return writeHistory(out, entries)
}

func writeHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, styles.StatusStyle.Render("No history"))
		return err
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-7s %-9s %s", e.At.Format("2006-01-02 15:04:05"), e.Kind, e.Outcome, e.Message)
		if e.Source != "" {
			line += "  " + styles.StatusStyle.Render(e.Source)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
