package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/markup"
	"github.com/alastify/vufind/internal/printer"
)

type SubmitCmd struct {
	flags *Flags

	// Command-specific flags
	query    []string
	formName string
	sets     []string
}

// NewSubmitCmd creates a new submit command
func NewSubmitCmd(flags *Flags) *SubmitCmd {
	return &SubmitCmd{flags: flags}
}

// Register adds the submit command to the application
func (cmd *SubmitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "submit",
		Usage:     "Fill and submit a form on a lightbox page",
		UsageText: "vufind submit [options] <submodule> <action>",
		Description: `Fetches a lightbox page, fills its form from --set flags, and
submits it the way the interactive modal would: scraped hidden fields
and defaults are preserved, the first submit button is marked as the
submitter, and the serialized values are sent back to the server.

Field values can also be piped on stdin, one name=value per line.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "query parameter as key=value (repeatable)",
				Destination: &cmd.query,
			},
			&cli.StringFlag{
				Name:        "form",
				Usage:       "name of the form to submit (default: first form)",
				Destination: &cmd.formName,
			},
			&cli.StringSliceFlag{
				Name:        "set",
				Aliases:     []string{"s"},
				Usage:       "field value as name=value (repeatable)",
				Destination: &cmd.sets,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SubmitCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	logger := log.With().Str("component", "submit").Logger()

	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <submodule> <action> arguments")
	}
	route := ajax.Route{Submodule: c.Args().Get(0), Action: c.Args().Get(1)}

	rt, err := newRuntime(ctx, cmd.flags, logger)
	if err != nil {
		return err
	}

	query, err := parsePairs(cmd.query)
	if err != nil {
		return err
	}

	values, err := cmd.fieldValues()
	if err != nil {
		return err
	}

	view, ctrl, wait := oneShot(rt, logger)

	ctrl.Open(route, query, nil, nil)
	wait()

	if markup.IsPlaceholder(view.Content()) || view.Content() == "" {
		return fmt.Errorf("no content received from %s", ctrl.LastURL())
	}
	if msg, ok := markup.FindAlert(view.Content(), markup.KindDanger); ok {
		p.Errorf("%s", msg)
		return cli.Exit("", 1)
	}

	form, err := cmd.pickForm(ctrl.Forms())
	if err != nil {
		return err
	}

	if err := fillForm(form, values); err != nil {
		return err
	}
	form.MarkSubmitter()

	var result string
	ctrl.SubmitForm(form, func(body string) { result = body })
	wait()

	if err := rt.saveSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to save session")
	}

	if result == "" {
		// Failure path replaced the modal content with an alert
		if msg, ok := markup.FindAlert(view.Content(), markup.KindDanger); ok {
			p.Errorf("%s", msg)
			return cli.Exit("", 1)
		}
		return fmt.Errorf("no response received")
	}

	if msg, ok := markup.FindAlert(result, markup.KindDanger); ok {
		p.Errorf("%s", msg)
		return cli.Exit("", 1)
	}

	if msg, ok := markup.FindAlert(result, markup.KindSuccess); ok {
		p.Successf("%s", msg)
		return nil
	}

	fmt.Fprintln(c.Root().Writer, markup.Render(result))
	return nil
}

// fieldValues merges --set flags with stdin pairs. Flags win over stdin.
func (cmd *SubmitCmd) fieldValues() (map[string]string, error) {
	values := map[string]string{}

	// Piped input carries one name=value per line
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			k, v, ok := strings.Cut(line, "=")
			if !ok || k == "" {
				return nil, fmt.Errorf("invalid stdin line %q, expected name=value", line)
			}
			values[k] = v
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	for _, pair := range cmd.sets {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q, expected name=value", pair)
		}
		values[k] = v
	}

	return values, nil
}

// pickForm selects the form to submit from the scraped bindings.
func (cmd *SubmitCmd) pickForm(forms []*markup.Form) (*markup.Form, error) {
	if len(forms) == 0 {
		return nil, fmt.Errorf("page has no forms")
	}
	if cmd.formName == "" {
		return forms[0], nil
	}
	for _, f := range forms {
		if f.Name == cmd.formName {
			return f, nil
		}
	}
	return nil, fmt.Errorf("form %q not found", cmd.formName)
}

// fillForm writes user values into the scraped form fields.
func fillForm(form *markup.Form, values map[string]string) error {
	for name, value := range values {
		field := form.Field(name)
		if field == nil {
			return fmt.Errorf("field %q not found in form %q", name, form.Name)
		}

		switch field.Type {
		case markup.FieldCheckbox:
			field.Checked = value == "on" || value == "true" || value == "1"
		case markup.FieldRadio:
			for i := range form.Fields {
				f := &form.Fields[i]
				if f.Type == markup.FieldRadio && f.Name == name {
					f.Checked = f.Value == value
				}
			}
		default:
			field.Value = value
		}
	}
	return nil
}
