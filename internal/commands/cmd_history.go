package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/alastify/vufind/internal/printer"
	"github.com/alastify/vufind/internal/store/jsonfile"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	clear bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage visited lightbox pages",
		UsageText: "vufind history [options]",
		Description: `View or manage the history of visited lightbox pages.

By default, lists recent visits with their route, title, and timestamp.
Use --clear to remove all history entries.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear all history",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	hist := jsonfile.NewHistoryStore(cmd.flags.Config.HistoryFile(), cmd.flags.Config.HistoryMax)

	if cmd.clear {
		if err := hist.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		p.Successf("History cleared")
		return nil
	}

	entries, err := hist.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		p.Infof("No history")
		return nil
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROUTE\tTITLE\tTIME")

	for _, e := range entries {
		title := e.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Route(), title, e.Timestamp.Format(time.DateTime))
	}

	return w.Flush()
}
