// Package session defines server session domain types and interfaces.
package session

import (
	"net/http"
	"net/url"
	"time"
)

// Cookie is one persisted server cookie. The cookie jar only exposes
// name/value pairs for a URL, so that is all that survives a restart.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session holds the cookies for one catalog server, so logins survive
// between runs.
type Session struct {
	Host      string    `json:"host"`
	Cookies   []Cookie  `json:"cookies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty reports whether the session carries no cookies.
func (s *Session) Empty() bool {
	return len(s.Cookies) == 0
}

// Restore loads the session's cookies into a cookie jar for the given base URL.
func Restore(jar http.CookieJar, base *url.URL, s Session) {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	jar.SetCookies(base, cookies)
}

// Capture snapshots the jar's cookies for the given base URL into a Session.
func Capture(jar http.CookieJar, base *url.URL, now time.Time) Session {
	s := Session{Host: base.Host, CreatedAt: now, UpdatedAt: now}
	for _, c := range jar.Cookies(base) {
		s.Cookies = append(s.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return s
}
