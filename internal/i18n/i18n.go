// Package i18n maps literal keys to localized display text for the UI.
package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fallbackLang is used when a key is missing from the active language.
const fallbackLang = "en"

// builtin holds the shipped translation tables.
var builtin = map[string]map[string]string{
	"en": {
		"loading":        "Loading",
		"close":          "Close",
		"error_occurred": "An error has occurred",
		"submit":         "Submit",
		"cancel":         "Cancel",
		"fill_form":      "Fill out form",
		"no_pages":       "No pages configured",
		"recent":         "Recent",
		"pages":          "Pages",
		"links":          "Links",
		"copied":         "Copied to clipboard",
	},
	"de": {
		"loading":        "Lädt",
		"close":          "Schließen",
		"error_occurred": "Ein Fehler ist aufgetreten",
		"submit":         "Absenden",
		"cancel":         "Abbrechen",
		"fill_form":      "Formular ausfüllen",
		"no_pages":       "Keine Seiten konfiguriert",
		"recent":         "Zuletzt",
		"pages":          "Seiten",
		"links":          "Links",
		"copied":         "In Zwischenablage kopiert",
	},
}

// Translator looks up display strings for one active language.
type Translator struct {
	lang   string
	tables map[string]map[string]string
}

// New creates a translator for the given language code. Unknown languages
// fall back to English per key.
func New(lang string) *Translator {
	if lang == "" {
		lang = fallbackLang
	}

	tables := make(map[string]map[string]string, len(builtin))
	for code, table := range builtin {
		copied := make(map[string]string, len(table))
		for k, v := range table {
			copied[k] = v
		}
		tables[code] = copied
	}

	return &Translator{lang: lang, tables: tables}
}

// LoadOverrides merges a yaml file of language code to key/value tables over
// the built-in tables. Missing file is not an error.
func (t *Translator) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read translations: %w", err)
	}

	var overrides map[string]map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse translations: %w", err)
	}

	for code, table := range overrides {
		if t.tables[code] == nil {
			t.tables[code] = make(map[string]string, len(table))
		}
		for k, v := range table {
			t.tables[code][k] = v
		}
	}

	return nil
}

// Translate returns the display string for a key: active language first,
// English fallback second, the key itself last.
func (t *Translator) Translate(key string) string {
	if v, ok := t.tables[t.lang][key]; ok {
		return v
	}
	if v, ok := t.tables[fallbackLang][key]; ok {
		return v
	}
	return key
}
