package tui

import (
	"fmt"
	"io"
	"time"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"

	"github.com/alastify/vufind/internal/core/config"
	"github.com/alastify/vufind/internal/core/history"
)

// PageItem wraps a configured page or a history entry for the home list.
type PageItem struct {
	Page  *config.Page
	Entry *history.Entry
}

// FilterValue returns the value used for filtering.
func (i PageItem) FilterValue() string {
	if i.Page != nil {
		return i.Page.Name + " " + i.Page.Submodule + " " + i.Page.Action
	}
	return i.Entry.Label()
}

// Name returns the display name for the item.
func (i PageItem) Name() string {
	if i.Page != nil {
		return i.Page.Name
	}
	return i.Entry.Label()
}

// Route returns the submodule/action pair the item opens.
func (i PageItem) Route() (submodule, action string) {
	if i.Page != nil {
		return i.Page.Submodule, i.Page.Action
	}
	return i.Entry.Submodule, i.Entry.Action
}

// PageDelegate handles rendering of page items in the list.
type PageDelegate struct {
	Normal   func(string) string
	Selected func(string) string
}

// NewPageDelegate creates a page delegate with default styles.
func NewPageDelegate() PageDelegate {
	return PageDelegate{
		Normal:   func(s string) string { return normalStyle.Render(s) },
		Selected: func(s string) string { return selectedStyle.Render(s) },
	}
}

// Height returns the height of each item.
func (d PageDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d PageDelegate) Spacing() int {
	return 0
}

// Update handles messages for the delegate.
func (d PageDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single list item.
func (d PageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(PageItem)
	if !ok {
		return
	}

	render := d.Normal
	cursor := "  "
	if index == m.Index() {
		render = d.Selected
		cursor = "> "
	}

	submodule, action := pi.Route()
	route := routeStyle.Render(fmt.Sprintf("   %s %s %s", submodule, iconDot, action))
	if pi.Entry != nil && !pi.Entry.Timestamp.IsZero() {
		route += " " + timestampStyle.Render(pi.Entry.Timestamp.Format(time.DateTime))
	}

	fmt.Fprintf(w, "%s\n%s", render(cursor+pi.Name()), route)
}
