package commands

import (
	"context"
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/printer"
)

type PagesCmd struct {
	flags *Flags
}

// NewPagesCmd creates a new pages command
func NewPagesCmd(flags *Flags) *PagesCmd {
	return &PagesCmd{flags: flags}
}

// Register adds the pages command to the application
func (cmd *PagesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "pages",
		Usage:       "List configured lightbox pages",
		UsageText:   "vufind pages",
		Description: "Displays a table of the configured pages with their route and resolved URL.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *PagesCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	pages := cmd.flags.Config.Pages
	if len(pages) == 0 {
		p.Infof("No pages configured")
		return nil
	}

	endpoints := ajax.Endpoints{Base: cmd.flags.Config.Server.BaseURL}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tROUTE\tURL")

	for _, page := range pages {
		route := ajax.Route{Submodule: page.Submodule, Action: page.Action}

		query := url.Values{}
		for k, v := range page.Query {
			query.Set(k, v)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", page.Name, route, endpoints.Lightbox(route, query))
	}

	return w.Flush()
}
