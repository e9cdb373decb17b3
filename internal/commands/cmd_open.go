package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/history"
	"github.com/alastify/vufind/internal/core/lightbox"
	"github.com/alastify/vufind/internal/core/markup"
	"github.com/alastify/vufind/internal/printer"
	"github.com/alastify/vufind/internal/store/jsonfile"
	"github.com/alastify/vufind/pkg/randid"
)

type OpenCmd struct {
	flags *Flags

	// Command-specific flags
	format string
	query  []string
	rawURL string
}

// NewOpenCmd creates a new open command
func NewOpenCmd(flags *Flags) *OpenCmd {
	return &OpenCmd{flags: flags}
}

// Register adds the open command to the application
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "open",
		Usage:     "Fetch a lightbox page and print it",
		UsageText: "vufind open [options] <submodule> <action>",
		Description: `Fetches one lightbox page from the catalog server and prints its
content. The page is addressed by AJAX submodule and action, the same
pair a catalog link encodes in its URL path.

Use --query to add query parameters, e.g. --query id=12345.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, html)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.StringSliceFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "query parameter as key=value (repeatable)",
				Destination: &cmd.query,
			},
			&cli.StringFlag{
				Name:        "url",
				Usage:       "full lightbox URL to load instead of submodule/action",
				Destination: &cmd.rawURL,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OpenCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	logger := log.With().Str("component", "open").Logger()

	rt, err := newRuntime(ctx, cmd.flags, logger)
	if err != nil {
		return err
	}

	query, err := parsePairs(cmd.query)
	if err != nil {
		return err
	}

	var route ajax.Route
	if cmd.rawURL == "" {
		if c.Args().Len() != 2 {
			return fmt.Errorf("expected <submodule> <action> arguments")
		}
		route = ajax.Route{Submodule: c.Args().Get(0), Action: c.Args().Get(1)}
	}

	view, ctrl, wait := oneShot(rt, logger)

	if cmd.rawURL != "" {
		ctrl.OpenByURL(cmd.rawURL, nil, nil)
	} else {
		ctrl.Open(route, query, nil, nil)
	}
	wait()

	if err := rt.saveSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to save session")
	}

	content := view.Content()
	if content == "" || markup.IsPlaceholder(content) {
		return fmt.Errorf("no content received from %s", ctrl.LastURL())
	}

	if cmd.rawURL == "" {
		cmd.recordVisit(ctx, rt.cfg.HistoryFile(), rt.cfg.HistoryMax, route, view.title, ctrl.LastURL(), logger)
	}

	out := c.Root().Writer
	if cmd.format == "html" {
		fmt.Fprintln(out, content)
		return nil
	}

	if view.title != "" {
		p.Section(view.title)
	}
	fmt.Fprintln(out, markup.Render(content))

	if msg, ok := markup.FindAlert(content, markup.KindDanger); ok {
		p.Errorf("%s", msg)
		return cli.Exit("", 1)
	}

	return nil
}

// recordVisit appends the page to the lightbox history.
func (cmd *OpenCmd) recordVisit(ctx context.Context, path string, maxEntries int, route ajax.Route, title, pageURL string, logger zerolog.Logger) {
	hist := jsonfile.NewHistoryStore(path, maxEntries)
	err := hist.Save(ctx, history.Entry{
		ID:        randid.Generate(8),
		Submodule: route.Submodule,
		Action:    route.Action,
		Title:     title,
		URL:       pageURL,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record history")
	}
}

// oneShot wires a controller with an inline dispatch loop for commands
// that load a single page and exit. The returned wait function drains
// transport completions until the content settles.
func oneShot(rt *runtime, logger zerolog.Logger) (*cliView, *lightbox.Controller, func()) {
	calls := make(chan func(), 8)

	client := ajax.NewClient(ajax.Options{
		Dispatch: func(fn func()) { calls <- fn },
		Jar:      rt.jar,
		Headers:  serverHeaders(rt.cfg),
		Logger:   logger,
	})

	view := &cliView{}
	endpoints := ajax.Endpoints{Base: rt.base.String()}
	ctrl := lightbox.New(client, view, rt.translate, endpoints, logger)

	wait := func() {
		fn := <-calls
		fn()
	}

	return view, ctrl, wait
}

// parsePairs converts key=value strings into url.Values.
func parsePairs(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, expected key=value", pair)
		}
		values.Add(k, v)
	}
	return values, nil
}
