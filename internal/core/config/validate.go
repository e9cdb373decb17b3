package config

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/alastify/vufind/pkg/tmpl"
)

// KeybindingTemplateData defines available fields for keybinding shell templates.
type KeybindingTemplateData struct {
	URL       string
	Submodule string
	Action    string
	Title     string
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.Server.BaseURL == "" {
		errs = errs.Append("server.base_url", fmt.Errorf("is required"))
	} else if u, err := url.Parse(c.Server.BaseURL); err != nil {
		errs = errs.Append("server.base_url", fmt.Errorf("invalid URL: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = errs.Append("server.base_url", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.HistoryMax < 0 {
		errs = errs.Append("history_max", fmt.Errorf("cannot be negative"))
	}

	seenNames := make(map[string]bool)
	for i, page := range c.Pages {
		field := fmt.Sprintf("pages[%d]", i)
		if page.Name == "" {
			errs = errs.Append(field+".name", fmt.Errorf("is required"))
		} else if seenNames[page.Name] {
			errs = errs.Append(field+".name", fmt.Errorf("duplicate name %q", page.Name))
		}
		seenNames[page.Name] = true

		if page.Submodule == "" || page.Action == "" {
			errs = errs.Append(field, fmt.Errorf("submodule and action are required"))
		}
	}

	for i, pattern := range c.Lightbox.LinkPatterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("lightbox.link_patterns[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}

	// Sorted for stable error ordering across runs.
	keys := make([]string, 0, len(c.Keybindings))
	for key := range c.Keybindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kb := c.Keybindings[key]
		field := "keybindings." + key
		if kb.Sh == "" {
			errs = errs.Append(field, fmt.Errorf("must have a sh command"))
			continue
		}
		if _, err := tmpl.Render(kb.Sh, KeybindingTemplateData{}); err != nil {
			errs = errs.Append(field, fmt.Errorf("template error: %w", err))
		}
	}

	return errs.ToError()
}

// OpensInLightbox reports whether a link href matches the configured lightbox
// link patterns.
func (c *Config) OpensInLightbox(href string) bool {
	for _, pattern := range c.Lightbox.LinkPatterns {
		if ok, err := doublestar.Match(pattern, href); err == nil && ok {
			return true
		}
	}
	return false
}
