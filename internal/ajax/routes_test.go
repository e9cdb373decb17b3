package ajax

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints_Lightbox(t *testing.T) {
	eps := Endpoints{Base: "https://catalog.example.edu/vufind/"}

	got := eps.Lightbox(Route{Submodule: "Feedback", Action: "Home"}, nil)
	assert.Equal(t, "https://catalog.example.edu/vufind/AJAX/JSON?method=getLightbox&subaction=Home&submodule=Feedback", got)
}

func TestEndpoints_Lightbox_ExtraQuery(t *testing.T) {
	eps := Endpoints{Base: "https://catalog.example.edu"}

	got := eps.Lightbox(Route{Submodule: "Cart", Action: "Export"}, url.Values{"id": {"a", "b"}})

	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "getLightbox", q.Get("method"))
	assert.Equal(t, "Cart", q.Get("submodule"))
	assert.Equal(t, "Export", q.Get("subaction"))
	assert.Equal(t, []string{"a", "b"}, q["id"])
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		wantRoute Route
		wantQuery url.Values
		wantErr   bool
	}{
		{
			name:      "plain path",
			action:    "/Feedback/Email",
			wantRoute: Route{Submodule: "Feedback", Action: "Email"},
			wantQuery: url.Values{},
		},
		{
			name:      "embedded query",
			action:    "/Feedback/Email?layout=lightbox&id=7",
			wantRoute: Route{Submodule: "Feedback", Action: "Email"},
			wantQuery: url.Values{"layout": {"lightbox"}, "id": {"7"}},
		},
		{
			name:      "install path prefix is ignored",
			action:    "/vufind/MyResearch/Login",
			wantRoute: Route{Submodule: "MyResearch", Action: "Login"},
			wantQuery: url.Values{},
		},
		{
			name:    "too few segments",
			action:  "/Home",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, query, err := ParseAction(tt.action)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, route)
			assert.Equal(t, tt.wantQuery, query)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	msg, ok := ErrorMessage(`{"data":"Invalid login","status":"ERROR"}`)
	require.True(t, ok)
	assert.Equal(t, "Invalid login", msg)

	msg, ok = ErrorMessage(`{"data":{"msg":"Session expired"},"status":"ERROR"}`)
	require.True(t, ok)
	assert.Equal(t, "Session expired", msg)

	_, ok = ErrorMessage(`<div>not json</div>`)
	assert.False(t, ok)

	_, ok = ErrorMessage(`{"status":"OK"}`)
	assert.False(t, ok, "envelope without data is not an error payload")
}
