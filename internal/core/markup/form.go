package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Field input kinds with submission-dependent behavior.
const (
	FieldSubmit   = "submit"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
)

// Option is a select option.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field is a named input scraped from a form.
type Field struct {
	Name    string
	Type    string // input type attribute, or "select"/"textarea"
	Value   string
	Label   string
	Checked bool
	Clicked bool // submit input that triggered submission
	Options []Option
}

// Form is a form scraped from a lightbox content fragment.
type Form struct {
	Name   string
	Method string
	Action string
	Fields []Field
}

// ParseForms scrapes all forms from an HTML fragment.
func ParseForms(fragment string) ([]*Form, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var forms []*Form
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "form" {
			forms = append(forms, scrapeForm(n))
		}
	})

	return forms, nil
}

// Field returns the first field with the given name, or nil.
func (f *Form) Field(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

// MarkSubmitter marks the first submit input as the one that triggered
// submission. Programmatic submission has no clicked button, so the first
// one stands in, matching what pressing enter in a browser does.
func (f *Form) MarkSubmitter() {
	for i := range f.Fields {
		if f.Fields[i].Type == FieldSubmit {
			f.Fields[i].Clicked = true
			return
		}
	}
}

// Serialize walks every named field and produces the key to value(s) mapping
// sent to the server. Names ending in the array marker accumulate under the
// stripped key. Submit inputs count only when they triggered submission.
// Radio and checkbox inputs count only when checked; an unchecked group is
// absent from the result entirely.
func (f *Form) Serialize() *Values {
	vals := NewValues()

	for i := range f.Fields {
		field := &f.Fields[i]
		if field.Name == "" {
			continue
		}

		switch field.Type {
		case FieldSubmit:
			if !field.Clicked {
				continue
			}
		case FieldRadio, FieldCheckbox:
			if !field.Checked {
				continue
			}
		}

		if key, ok := strings.CutSuffix(field.Name, arrayMarker); ok {
			vals.Append(key, field.Value)
		} else {
			vals.Set(field.Name, field.Value)
		}
	}

	return vals
}

func scrapeForm(formNode *html.Node) *Form {
	f := &Form{
		Name:   attr(formNode, "name"),
		Method: attr(formNode, "method"),
		Action: attr(formNode, "action"),
	}

	walk(formNode, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "input":
			name := attr(n, "name")
			if name == "" {
				return
			}
			field := Field{
				Name:    name,
				Type:    strings.ToLower(attr(n, "type")),
				Value:   attr(n, "value"),
				Label:   attr(n, "placeholder"),
				Checked: hasAttr(n, "checked"),
			}
			if field.Type == "" {
				field.Type = "text"
			}
			if field.Type == FieldCheckbox && field.Value == "" {
				field.Value = "on"
			}
			f.Fields = append(f.Fields, field)
		case "textarea":
			name := attr(n, "name")
			if name == "" {
				return
			}
			f.Fields = append(f.Fields, Field{
				Name:  name,
				Type:  "textarea",
				Value: strings.TrimSpace(textContent(n)),
				Label: attr(n, "placeholder"),
			})
		case "select":
			name := attr(n, "name")
			if name == "" {
				return
			}
			f.Fields = append(f.Fields, scrapeSelect(n, name))
		case "button":
			name := attr(n, "name")
			if name == "" || strings.ToLower(attr(n, "type")) != FieldSubmit {
				return
			}
			f.Fields = append(f.Fields, Field{
				Name:  name,
				Type:  FieldSubmit,
				Value: attr(n, "value"),
				Label: strings.TrimSpace(textContent(n)),
			})
		}
	})

	return f
}

func scrapeSelect(n *html.Node, name string) Field {
	field := Field{Name: name, Type: "select"}

	walk(n, func(opt *html.Node) {
		if opt.Type != html.ElementNode || opt.Data != "option" {
			return
		}
		value := attr(opt, "value")
		label := strings.TrimSpace(textContent(opt))
		if value == "" {
			value = label
		}
		field.Options = append(field.Options, Option{
			Value:    value,
			Label:    label,
			Selected: hasAttr(opt, "selected"),
		})
	})

	// The selected option wins; browsers fall back to the first one.
	for _, opt := range field.Options {
		if opt.Selected {
			field.Value = opt.Value
			return field
		}
	}
	if len(field.Options) > 0 {
		field.Value = field.Options[0].Value
	}

	return field
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}
