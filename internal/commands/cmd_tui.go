package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/lightbox"
	"github.com/alastify/vufind/internal/store/jsonfile"
	"github.com/alastify/vufind/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return nil
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	logger := log.With().Str("component", "tui").Logger()

	rt, err := newRuntime(ctx, cmd.flags, logger)
	if err != nil {
		return err
	}

	// The dispatcher carries transport completions and modal dismissals
	// onto the Bubble Tea event loop, so the controller only ever runs
	// inside Update.
	dispatcher := tui.NewDispatcher()

	client := ajax.NewClient(ajax.Options{
		Dispatch: dispatcher.Dispatch,
		Jar:      rt.jar,
		Headers:  serverHeaders(rt.cfg),
		Logger:   log.With().Str("component", "ajax").Logger(),
	})

	view := tui.NewModalView(dispatcher)
	endpoints := ajax.Endpoints{Base: rt.base.String()}
	ctrl := lightbox.New(client, view, rt.translate, endpoints, log.With().Str("component", "lightbox").Logger())

	hist := jsonfile.NewHistoryStore(rt.cfg.HistoryFile(), rt.cfg.HistoryMax)

	m := tui.New(ctrl, view, rt.translate, rt.cfg, tui.Options{
		History: hist,
		Logger:  logger,
	})

	p := tea.NewProgram(m)
	dispatcher.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if err := rt.saveSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to save session")
	}

	return nil
}
