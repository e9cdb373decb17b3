// Package history defines lightbox visit history domain types and interfaces.
package history

import "time"

// Entry records one lightbox page visit.
type Entry struct {
	ID        string    `json:"id"`
	Submodule string    `json:"submodule"`
	Action    string    `json:"action"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// Route returns the "Submodule/Action" form shown in the UI.
func (e *Entry) Route() string {
	return e.Submodule + "/" + e.Action
}

// Label returns the display label: the page title when known, the route
// otherwise.
func (e *Entry) Label() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Route()
}
