// Package ajax talks to the catalog server's AJAX endpoints: it builds
// lightbox URLs, issues cancellable requests, and decodes the server's JSON
// error envelope.
package ajax

import (
	"fmt"
	"net/url"
	"strings"
)

// lightboxMethod is the fixed AJAX handler every lightbox request targets.
const lightboxMethod = "getLightbox"

// Route identifies a lightbox page by its submodule and subaction.
type Route struct {
	Submodule string
	Action    string
}

// String returns the "Submodule/Action" form used in logs and the UI.
func (r Route) String() string {
	return r.Submodule + "/" + r.Action
}

// Endpoints builds URLs against a server base path.
type Endpoints struct {
	Base string
}

// Lightbox builds the AJAX lightbox URL for a route, appending any extra
// query parameters after the routing ones.
func (e Endpoints) Lightbox(route Route, query url.Values) string {
	q := url.Values{}
	q.Set("method", lightboxMethod)
	q.Set("submodule", route.Submodule)
	q.Set("subaction", route.Action)
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}

	return strings.TrimRight(e.Base, "/") + "/AJAX/JSON?" + q.Encode()
}

// ParseAction splits a form action path into its submodule/action route and
// any query parameters embedded in the path.
func ParseAction(action string) (Route, url.Values, error) {
	u, err := url.Parse(action)
	if err != nil {
		return Route{}, nil, fmt.Errorf("parse action %q: %w", action, err)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return Route{}, nil, fmt.Errorf("action %q: expected submodule/action path", action)
	}

	// The route lives in the last two segments; anything before them is the
	// install path.
	route := Route{
		Submodule: segments[len(segments)-2],
		Action:    segments[len(segments)-1],
	}

	return route, u.Query(), nil
}
