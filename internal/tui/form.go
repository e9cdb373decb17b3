package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/alastify/vufind/internal/core/markup"
	"github.com/alastify/vufind/internal/styles"
)

// FormView wraps a huh.Form built from a scraped lightbox form. Hidden
// fields keep their scraped values; everything user-editable becomes a
// huh field. Apply writes the entered values back into the scraped
// form so it can be serialized and submitted.
type FormView struct {
	form  *huh.Form
	src   *markup.Form
	apply []func()
}

// NewFormView builds an interactive form for the given scraped form.
func NewFormView(src *markup.Form) *FormView {
	fv := &FormView{src: src}

	var fields []huh.Field
	radioDone := map[string]bool{}

	for i := range src.Fields {
		f := &src.Fields[i]
		if f.Name == "" {
			continue
		}

		switch f.Type {
		case "hidden", markup.FieldSubmit:
			// Hidden values pass through untouched; the submitter is
			// marked at apply time.

		case markup.FieldCheckbox:
			checked := f.Checked
			field := f
			fields = append(fields, huh.NewConfirm().
				Title(fieldTitle(f)).
				Affirmative("yes").
				Negative("no").
				Value(&checked))
			fv.apply = append(fv.apply, func() { field.Checked = checked })

		case markup.FieldRadio:
			if radioDone[f.Name] {
				continue
			}
			radioDone[f.Name] = true
			group := radioGroup(src, f.Name)
			selected := ""
			options := make([]huh.Option[string], 0, len(group))
			for _, g := range group {
				options = append(options, huh.NewOption(fieldTitle(g), g.Value))
				if g.Checked {
					selected = g.Value
				}
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(fieldTitle(f)).
				Options(options...).
				Value(&selected))
			fv.apply = append(fv.apply, func() {
				for _, g := range group {
					g.Checked = g.Value == selected
				}
			})

		case "select":
			value := f.Value
			field := f
			options := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				label := o.Label
				if label == "" {
					label = o.Value
				}
				options = append(options, huh.NewOption(label, o.Value))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(fieldTitle(f)).
				Options(options...).
				Value(&value))
			fv.apply = append(fv.apply, func() { field.Value = value })

		case "textarea":
			value := f.Value
			field := f
			fields = append(fields, huh.NewText().
				Title(fieldTitle(f)).
				Lines(4).
				Value(&value))
			fv.apply = append(fv.apply, func() { field.Value = value })

		default:
			value := f.Value
			field := f
			input := huh.NewInput().
				Title(fieldTitle(f)).
				Value(&value)
			if f.Type == "password" {
				input = input.EchoMode(huh.EchoModePassword)
			}
			fields = append(fields, input)
			fv.apply = append(fv.apply, func() { field.Value = value })
		}
	}

	fv.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(styles.FormTheme())

	return fv
}

// Form returns the underlying huh.Form for tea.Model integration.
func (fv *FormView) Form() *huh.Form {
	return fv.form
}

// SetForm replaces the underlying form after an Update cycle.
func (fv *FormView) SetForm(f *huh.Form) {
	fv.form = f
}

// Completed reports whether the user finished the form.
func (fv *FormView) Completed() bool {
	return fv.form.State == huh.StateCompleted
}

// View renders the form.
func (fv *FormView) View() string {
	return fv.form.View()
}

// Apply writes the entered values back into the scraped form and
// returns it ready for submission.
func (fv *FormView) Apply() *markup.Form {
	for _, fn := range fv.apply {
		fn()
	}
	fv.src.MarkSubmitter()
	return fv.src
}

// radioGroup returns all radio fields sharing the given name.
func radioGroup(src *markup.Form, name string) []*markup.Field {
	var group []*markup.Field
	for i := range src.Fields {
		f := &src.Fields[i]
		if f.Type == markup.FieldRadio && f.Name == name {
			group = append(group, f)
		}
	}
	return group
}

// fieldTitle returns the display title for a field, falling back to a
// humanized field name when no label was scraped.
func fieldTitle(f *markup.Field) string {
	if f.Label != "" {
		return f.Label
	}
	name := f.Name
	name = strings.TrimSuffix(name, "[]")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
