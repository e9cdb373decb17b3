// Package markup works with the HTML fragments served by the catalog's
// lightbox endpoints: building and locating alert blocks, scraping forms and
// links, and flattening fragments into terminal-friendly text.
package markup

import (
	"html"
	"strings"
)

// Alert severity kinds. These mirror the CSS classes the server emits.
const (
	KindDanger  = "danger"
	KindSuccess = "success"
	KindWarning = "warning"
	KindInfo    = "info"
)

// Loading placeholder and spinner markers.
const (
	spinnerTag         = `<i class="fa fa-spinner fa-spin"></i>`
	placeholderOpen    = `<div class="lightbox-loading">`
	alertCloseTag      = `</div>`
	dismissButtonOpen  = `<button class="btn" data-dismiss="modal">`
	dismissButtonClose = `</button>`
)

// alertMarker returns the literal opening tag that identifies an alert block
// of the given kind. Detection is a marker scan against this exact string,
// not HTML parsing: only this one tag/class pattern is recognized.
func alertMarker(kind string) string {
	return `<div class="alert alert-` + kind + `">`
}

// Alert builds a bare alert block of the given kind.
func Alert(kind, message string) string {
	return alertMarker(kind) + html.EscapeString(message) + alertCloseTag
}

// AlertBlock builds an alert block followed by a dismiss button. Used when an
// alert replaces the whole content region rather than being prepended to it.
func AlertBlock(kind, message, dismissLabel string) string {
	var sb strings.Builder
	sb.WriteString(Alert(kind, message))
	sb.WriteString("\n")
	sb.WriteString(dismissButtonOpen)
	sb.WriteString(html.EscapeString(dismissLabel))
	sb.WriteString(dismissButtonClose)
	return sb.String()
}

// LoadingPlaceholder builds the spinner block shown while a request is in
// flight.
func LoadingPlaceholder(label string) string {
	return placeholderOpen + spinnerTag + " " + html.EscapeString(label) + "..." + alertCloseTag
}

// FindAlert scans the fragment for an alert block of the given kind and
// returns its inner text with markup stripped and whitespace trimmed. The
// second return is false when no marker is present.
func FindAlert(fragment, kind string) (string, bool) {
	marker := alertMarker(kind)
	start := strings.Index(fragment, marker)
	if start < 0 {
		return "", false
	}

	rest := fragment[start+len(marker):]
	end := strings.Index(rest, alertCloseTag)
	if end < 0 {
		end = len(rest)
	}

	return strings.TrimSpace(StripTags(rest[:end])), true
}

// RemoveAlert removes the first alert block of the given kind from the
// fragment, if one exists.
func RemoveAlert(fragment, kind string) string {
	marker := alertMarker(kind)
	start := strings.Index(fragment, marker)
	if start < 0 {
		return fragment
	}

	rest := fragment[start+len(marker):]
	end := strings.Index(rest, alertCloseTag)
	if end < 0 {
		return fragment[:start]
	}

	tail := rest[end+len(alertCloseTag):]
	// An alert inserted as a full block carries a dismiss button; removing
	// the alert removes its button too.
	trimmed := strings.TrimLeft(tail, " \t\n")
	if strings.HasPrefix(trimmed, dismissButtonOpen) {
		if btnEnd := strings.Index(trimmed, dismissButtonClose); btnEnd >= 0 {
			tail = trimmed[btnEnd+len(dismissButtonClose):]
		}
	}

	return fragment[:start] + tail
}

// RemoveSpinner strips any loading-spinner indicators from the fragment.
func RemoveSpinner(fragment string) string {
	return strings.ReplaceAll(fragment, spinnerTag, "")
}

// IsPlaceholder reports whether the fragment carries no real content: it is
// empty, whitespace, or the loading placeholder.
func IsPlaceholder(fragment string) bool {
	if strings.Contains(fragment, placeholderOpen) {
		return true
	}
	return strings.TrimSpace(StripTags(fragment)) == ""
}

// StripTags removes tag spans from the fragment and unescapes entities. It is
// a scanner, not a parser: anything between < and > is dropped.
func StripTags(fragment string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range fragment {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			sb.WriteRune(r)
		}
	}
	return html.UnescapeString(sb.String())
}
