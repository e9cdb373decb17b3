package lightbox

import (
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/markup"
)

// fakeRequest is a pending transport request that tests settle by hand.
type fakeRequest struct {
	verb      string
	url       string
	body      url.Values
	onSuccess ajax.SuccessFunc
	onFailure ajax.FailureFunc
	cancelled bool
}

func (r *fakeRequest) Cancel() { r.cancelled = true }

// fakeTransport records requests and lets tests deliver outcomes.
type fakeTransport struct {
	requests []*fakeRequest
}

func (t *fakeTransport) Do(verb, rawURL string, body url.Values, onSuccess ajax.SuccessFunc, onFailure ajax.FailureFunc) ajax.Handle {
	req := &fakeRequest{verb: verb, url: rawURL, body: body, onSuccess: onSuccess, onFailure: onFailure}
	t.requests = append(t.requests, req)
	return req
}

func (t *fakeTransport) last() *fakeRequest {
	return t.requests[len(t.requests)-1]
}

// fakeView implements View with a synchronous close transition.
type fakeView struct {
	content   string
	title     string
	opened    int
	closedFns []func()
}

func (v *fakeView) Open()                    { v.opened++ }
func (v *fakeView) Content() string          { return v.content }
func (v *fakeView) SetContent(s string)      { v.content = s }
func (v *fakeView) SetTitle(s string)        { v.title = s }
func (v *fakeView) NotifyOnClosed(fn func()) { v.closedFns = append(v.closedFns, fn) }

func (v *fakeView) Close() {
	for _, fn := range v.closedFns {
		fn()
	}
}

// keyTranslator echoes the key, capitalized enough for assertions.
type keyTranslator struct{}

func (keyTranslator) Translate(key string) string { return key }

type fakeCaptcha struct{ reloads int }

func (c *fakeCaptcha) Reload() { c.reloads++ }

func newTestController() (*Controller, *fakeTransport, *fakeView) {
	tr := &fakeTransport{}
	v := &fakeView{}
	c := New(tr, v, keyTranslator{}, ajax.Endpoints{Base: "https://cat.example.edu"}, zerolog.Nop())
	return c, tr, v
}

func TestOpenByURL_CancelsPriorRequest(t *testing.T) {
	c, tr, v := newTestController()

	c.OpenByURL("https://cat.example.edu/a", nil, nil)
	first := tr.last()

	c.OpenByURL("https://cat.example.edu/b", nil, nil)

	assert.True(t, first.cancelled, "starting a new request cancels the prior one")
	assert.Len(t, tr.requests, 2)

	// The superseded request settles with status 0: no alert appears.
	first.onFailure(0, "", "")
	assert.NotContains(t, v.content, "alert")

	tr.last().onSuccess("<p>page b</p>")
	assert.Contains(t, v.content, "page b")
}

func TestOpenByURL_TracksOriginAndLast(t *testing.T) {
	c, _, _ := newTestController()

	c.OpenByURL("https://cat.example.edu/first", url.Values{"a": {"1"}}, nil)
	c.OpenByURL("https://cat.example.edu/second", nil, nil)

	assert.Equal(t, "https://cat.example.edu/first", c.OriginURL())
	assert.Equal(t, "https://cat.example.edu/second", c.LastURL())
}

func TestOpenByURL_SuppressesDefaultNavigation(t *testing.T) {
	c, _, _ := newTestController()
	assert.False(t, c.OpenByURL("https://cat.example.edu/a", nil, nil))
}

func TestOpen_BuildsLightboxURL(t *testing.T) {
	c, tr, _ := newTestController()

	c.Open(ajax.Route{Submodule: "Feedback", Action: "Home"}, nil, nil, nil)

	req := tr.last()
	u, err := url.Parse(req.url)
	require.NoError(t, err)
	assert.Equal(t, "/AJAX/JSON", u.Path)
	assert.Equal(t, "getLightbox", u.Query().Get("method"))
	assert.Equal(t, "Feedback", u.Query().Get("submodule"))
	assert.Equal(t, "Home", u.Query().Get("subaction"))
	assert.Equal(t, "POST", req.verb)
}

func TestReplaceContent_OpensOncePerSession(t *testing.T) {
	c, _, v := newTestController()

	var order []string
	c.OnOpen(func() { order = append(order, "first") })
	c.OnOpen(func() { order = append(order, "second") })

	c.ReplaceContent("<p>one</p>")
	c.ReplaceContent("<p>two</p>")

	assert.True(t, c.Visible())
	assert.Equal(t, 1, v.opened, "the open transition happens once per session")
	assert.Equal(t, []string{"first", "second", "first", "second"}, order,
		"open callbacks run in registration order on every content change")
}

func TestReplaceContent_SetsTitleFromHeading(t *testing.T) {
	c, _, v := newTestController()

	c.ReplaceContent("<h2>Send Feedback</h2><p>form</p>")
	assert.Equal(t, "Send Feedback", v.title)
}

func TestClose_DrainsCallbacksLIFODespitePanic(t *testing.T) {
	c, _, _ := newTestController()
	c.ReplaceContent("<p>x</p>")

	var order []string
	c.OnClose(func() { order = append(order, "a") })
	c.OnClose(func() { panic("boom") })
	c.OnClose(func() { order = append(order, "c") })

	c.Close()

	assert.Equal(t, []string{"c", "a"}, order, "LIFO, panicking callback skipped")
	assert.False(t, c.Visible())
	assert.Empty(t, c.OriginURL())

	// Callbacks ran once and were cleared.
	order = nil
	c.ReplaceContent("<p>y</p>")
	c.Close()
	assert.Empty(t, order)
}

func TestClose_ResetsContentAndCancelsRequest(t *testing.T) {
	c, tr, v := newTestController()

	c.OpenByURL("https://cat.example.edu/a", nil, nil)
	req := tr.last()

	c.Close()

	assert.True(t, req.cancelled)
	assert.True(t, markup.IsPlaceholder(v.content))
	assert.Empty(t, v.title)
}

func TestCheckForError_RoutesMarkerToDisplayError(t *testing.T) {
	c, _, v := newTestController()

	called := false
	c.CheckForError(`<div class="alert alert-danger">Bad request</div>`, func(string) { called = true }, "")

	assert.False(t, called, "success continuation must be skipped")
	assert.Contains(t, v.content, "Bad request")
	assert.Contains(t, v.content, "alert-danger")
}

func TestCheckForError_ForwardsCleanContent(t *testing.T) {
	c, _, _ := newTestController()

	var got string
	c.CheckForError("<p>all good</p>", func(s string) { got = s }, "")

	assert.Equal(t, "<p>all good</p>", got, "full HTML forwarded unchanged")
}

func TestDisplayError_ReplacesPlaceholderContent(t *testing.T) {
	c, _, v := newTestController()
	v.content = markup.LoadingPlaceholder("loading")

	c.DisplayError("oops", "")

	assert.Contains(t, v.content, "oops")
	assert.Contains(t, v.content, "data-dismiss", "placeholder-only content gets the message+button block")
}

func TestDisplayError_PrependsAboveExistingContent(t *testing.T) {
	c, _, v := newTestController()
	v.content = "<h2>Form</h2><p>fields</p>"

	c.DisplayError("oops", "")

	assert.Contains(t, v.content, "oops")
	assert.Contains(t, v.content, "fields", "existing content survives the insert")
	assert.Less(t, indexOf(v.content, "oops"), indexOf(v.content, "fields"), "alert goes above")
}

func TestDisplayError_ReplacesExistingSameKindAlert(t *testing.T) {
	c, _, v := newTestController()
	v.content = markup.Alert(markup.KindDanger, "old error") + "<p>fields</p>"

	c.DisplayError("new error", "")

	assert.Contains(t, v.content, "new error")
	assert.NotContains(t, v.content, "old error")
}

func TestDisplayError_SoleAlertIsReplacedNotStacked(t *testing.T) {
	c, _, v := newTestController()
	c.DisplayError("first", "")
	c.DisplayError("second", "")

	assert.Contains(t, v.content, "second")
	assert.NotContains(t, v.content, "first")
}

func TestDisplayError_ReloadsCaptcha(t *testing.T) {
	c, _, _ := newTestController()
	captcha := &fakeCaptcha{}
	c.SetCaptcha(captcha)

	c.DisplayError("oops", "")
	assert.Equal(t, 1, captcha.reloads)
}

func TestDisplayFailure_Taxonomy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		statusText string
		body       string
		wantShown  string
		wantSilent bool
	}{
		{
			name:       "cancelled request displays nothing",
			status:     0,
			wantSilent: true,
		},
		{
			name:      "200 with structured error payload",
			status:    200,
			body:      `{"data":"Invalid login","status":"ERROR"}`,
			wantShown: "Invalid login",
		},
		{
			name:      "200 with unparseable body shows raw body",
			status:    200,
			body:      "something went sideways",
			wantShown: "something went sideways",
		},
		{
			name:       "real status code shows text and code",
			status:     503,
			statusText: "Service Unavailable",
			wantShown:  "Service Unavailable (503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tr, v := newTestController()
			c.OpenByURL("https://cat.example.edu/a", nil, nil)

			tr.last().onFailure(tt.status, tt.statusText, tt.body)

			if tt.wantSilent {
				assert.NotContains(t, v.content, "alert-danger")
				return
			}
			assert.Contains(t, v.content, tt.wantShown)
		})
	}
}

const actionlessForm = `
<h2>Send Feedback</h2>
<form name="feedbackForm" method="post">
  <input type="text" name="name" value="pat" />
  <input type="submit" name="send" value="Send" />
</form>`

func TestScenario_SubmitActionlessFormResubmitsToLastURL(t *testing.T) {
	c, tr, _ := newTestController()

	c.Open(ajax.Route{Submodule: "Feedback", Action: "Home"}, nil, nil, nil)
	feedbackURL := tr.last().url
	assert.Equal(t, feedbackURL, c.OriginURL())
	assert.Equal(t, feedbackURL, c.LastURL())

	tr.last().onSuccess(actionlessForm)

	forms := c.Forms()
	require.Len(t, forms, 1)
	forms[0].MarkSubmitter()
	c.Submit(forms[0], false)

	req := tr.last()
	assert.Equal(t, feedbackURL, req.url, "actionless form resubmits to the current page")
	assert.Equal(t, "POST", req.verb)
	assert.Equal(t, "pat", req.body.Get("name"))
	assert.Equal(t, "Send", req.body.Get("send"))
}

func TestSubmitForm_ExplicitActionPost(t *testing.T) {
	c, tr, _ := newTestController()
	c.ReplaceContent(`<form name="f" method="POST" action="/Feedback/Email?layout=lightbox"><input name="msg" value="hi"/></form>`)

	forms := c.Forms()
	require.Len(t, forms, 1)
	c.Submit(forms[0], false)

	req := tr.last()
	u, err := url.Parse(req.url)
	require.NoError(t, err)
	assert.Equal(t, "Feedback", u.Query().Get("submodule"))
	assert.Equal(t, "Email", u.Query().Get("subaction"))
	assert.Equal(t, "lightbox", u.Query().Get("layout"), "embedded query rides the URL")
	assert.Equal(t, "hi", req.body.Get("msg"), "POST sends serialized data as the body")
}

func TestSubmitForm_NonPostSendsDataAsQuery(t *testing.T) {
	c, tr, _ := newTestController()
	c.ReplaceContent(`<form name="f" method="get" action="/Search/Advanced"><input name="q" value="dogs"/></form>`)

	forms := c.Forms()
	require.Len(t, forms, 1)
	c.Submit(forms[0], false)

	req := tr.last()
	u, err := url.Parse(req.url)
	require.NoError(t, err)
	assert.Equal(t, "dogs", u.Query().Get("q"), "non-POST sends serialized data as the query")
	assert.Empty(t, req.body.Get("q"), "not in the body")
}

func TestSubmitForm_ShowsLoadingPlaceholder(t *testing.T) {
	c, _, v := newTestController()
	c.ReplaceContent(actionlessForm)

	forms := c.Forms()
	require.Len(t, forms, 1)
	c.Submit(forms[0], false)

	assert.True(t, markup.IsPlaceholder(v.content), "placeholder shows until the request resolves")
}

func TestSubmit_DefaultClosesOnCleanResult(t *testing.T) {
	c, tr, _ := newTestController()
	c.ReplaceContent(actionlessForm)

	c.Submit(c.Forms()[0], false)
	tr.last().onSuccess("<p>thanks</p>")

	assert.False(t, c.Visible(), "a clean result closes the modal")
}

func TestSubmit_DefaultSurfacesErrorMarker(t *testing.T) {
	c, tr, v := newTestController()
	c.ReplaceContent(actionlessForm)

	c.Submit(c.Forms()[0], false)
	tr.last().onSuccess(`<div class="alert alert-danger">Missing email</div>`)

	assert.True(t, c.Visible(), "an error keeps the modal open")
	assert.Contains(t, v.content, "Missing email")
}

func TestSubmit_ResultCallback(t *testing.T) {
	c, tr, _ := newTestController()

	var got string
	c.OnFormResult("feedbackForm", func(body string) { got = body })
	c.ReplaceContent(actionlessForm)

	c.Submit(c.Forms()[0], false)
	tr.last().onSuccess("<p>done</p>")

	assert.Equal(t, "<p>done</p>", got)
	assert.True(t, c.Visible(), "result callbacks decide what happens next")
}

func TestSubmit_OverrideHandler(t *testing.T) {
	c, tr, _ := newTestController()

	var overridden *markup.Form
	c.HandleForm("feedbackForm", func(f *markup.Form) bool {
		overridden = f
		return false
	})
	c.ReplaceContent(actionlessForm)

	before := len(tr.requests)
	c.Submit(c.Forms()[0], false)

	require.NotNil(t, overridden)
	assert.Equal(t, "feedbackForm", overridden.Name)
	assert.Len(t, tr.requests, before, "handler returning false suppresses default submission")
}

func TestSubmit_OverrideHandlerFallsThrough(t *testing.T) {
	c, tr, _ := newTestController()

	c.HandleForm("feedbackForm", func(f *markup.Form) bool { return true })
	c.ReplaceContent(actionlessForm)

	before := len(tr.requests)
	c.Submit(c.Forms()[0], false)

	assert.Len(t, tr.requests, before+1, "handler returning true lets default submission proceed")
}

func TestSubmit_HandledEventSkipsAndClearsSpinner(t *testing.T) {
	c, tr, v := newTestController()
	c.ReplaceContent(actionlessForm)
	v.content += markup.LoadingPlaceholder("loading")

	before := len(tr.requests)
	c.Submit(c.Forms()[0], true)

	assert.Len(t, tr.requests, before, "handled events skip submission")
	assert.NotContains(t, v.content, "fa-spinner")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
