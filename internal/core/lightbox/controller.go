// Package lightbox implements the modal content-loading and form-interception
// pipeline. A Controller owns the modal's visibility, the single in-flight
// request, the URL history of the current session, and the callback
// registries; the view, transport, and translator are collaborators it drives
// but does not own.
package lightbox

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/markup"
)

// View is the modal surface the controller drives. Close starts the visual
// close transition; the closed notification fires asynchronously once the
// transition finishes.
type View interface {
	Open()
	Close()
	Content() string
	SetContent(fragment string)
	SetTitle(title string)
	NotifyOnClosed(fn func())
}

// Translator maps literal keys to localized display text.
type Translator interface {
	Translate(key string) string
}

// CaptchaReloader is asked to refresh a third-party CAPTCHA widget after an
// error is displayed. Implementations may be absent entirely.
type CaptchaReloader interface {
	Reload()
}

// FormHandler fully overrides submission for a named form. Returning true
// lets the default submission proceed afterwards; false means the handler
// dealt with it.
type FormHandler func(f *markup.Form) bool

// ResultCallback receives the response body of a form submission.
type ResultCallback func(body string)

// SuccessFunc receives the raw body of a completed page load.
type SuccessFunc = ajax.SuccessFunc

type bindingKind int

const (
	bindDefault bindingKind = iota
	bindOverride
	bindResult
)

// binding is a form found in the current content, resolved once at
// registration time to the handler kind that will serve its submission.
type binding struct {
	form     *markup.Form
	kind     bindingKind
	override FormHandler
	result   ResultCallback
}

// Controller is the lightbox controller. It is constructed once and must only
// be used from a single event loop; the transport delivers completions back
// onto that loop.
type Controller struct {
	transport ajax.Transport
	view      View
	translate Translator
	captcha   CaptchaReloader
	endpoints ajax.Endpoints
	log       zerolog.Logger

	visible      bool
	active       ajax.Handle
	originURL    string
	originParams url.Values
	lastURL      string
	lastParams   url.Values

	openCallbacks       []func()
	closeCallbacks      []func()
	formHandlers        map[string]FormHandler
	formResultCallbacks map[string]ResultCallback
	bindings            []binding
}

// New creates a controller wired to its collaborators. The form registration
// pass is installed as the first open callback so every content change
// rebinds the forms it contains.
func New(transport ajax.Transport, view View, translate Translator, endpoints ajax.Endpoints, log zerolog.Logger) *Controller {
	c := &Controller{
		transport:           transport,
		view:                view,
		translate:           translate,
		endpoints:           endpoints,
		log:                 log,
		formHandlers:        make(map[string]FormHandler),
		formResultCallbacks: make(map[string]ResultCallback),
	}

	c.openCallbacks = append(c.openCallbacks, c.registerForms)
	view.NotifyOnClosed(c.handleClosed)

	return c
}

// SetCaptcha installs the CAPTCHA reload hook.
func (c *Controller) SetCaptcha(r CaptchaReloader) { c.captcha = r }

// Visible reports whether the modal surface is currently displayed.
func (c *Controller) Visible() bool { return c.visible }

// OriginURL returns the first URL loaded in the current modal session.
func (c *Controller) OriginURL() string { return c.originURL }

// LastURL returns the most recently loaded URL.
func (c *Controller) LastURL() string { return c.lastURL }

// OnOpen registers a callback run after every content change, in
// registration order. Callbacks persist across opens and closes.
func (c *Controller) OnOpen(fn func()) {
	c.openCallbacks = append(c.openCallbacks, fn)
}

// OnClose registers a callback run once when the modal closes. Close
// callbacks run in reverse registration order and are cleared afterwards.
func (c *Controller) OnClose(fn func()) {
	c.closeCallbacks = append(c.closeCallbacks, fn)
}

// HandleForm installs a full override handler for the named form.
func (c *Controller) HandleForm(name string, h FormHandler) {
	c.formHandlers[name] = h
}

// OnFormResult installs a post-submission callback for the named form.
func (c *Controller) OnFormResult(name string, cb ResultCallback) {
	c.formResultCallbacks[name] = cb
}

// OpenByURL loads a URL into the modal. Any in-flight request is cancelled
// first, so its failure path stays silent and only this request's outcome is
// seen. Returns false so UI event handlers suppress default navigation.
func (c *Controller) OpenByURL(rawURL string, params url.Values, onSuccess SuccessFunc) bool {
	if c.active != nil {
		c.active.Cancel()
		c.active = nil
	}

	if !c.visible {
		c.view.Open()
		c.visible = true
	}

	if onSuccess == nil {
		onSuccess = c.ReplaceContent
	}

	if c.originURL == "" {
		c.originURL = rawURL
		c.originParams = params
	}
	c.lastURL = rawURL
	c.lastParams = params

	c.log.Debug().Str("url", rawURL).Msg("lightbox load")
	c.active = c.transport.Do(http.MethodPost, rawURL, params, onSuccess, c.displayFailure)

	return false
}

// Open loads a lightbox route, appending query parameters to the AJAX
// endpoint URL and sending post as the request body.
func (c *Controller) Open(route ajax.Route, query, post url.Values, onSuccess SuccessFunc) bool {
	if post == nil {
		post = url.Values{}
	}
	return c.OpenByURL(c.endpoints.Lightbox(route, query), post, onSuccess)
}

// ReplaceContent swaps the content region's markup and runs every open
// callback in registration order. All new page content must funnel through
// here so the callbacks always fire; the first change in a session also
// transitions the modal to visible.
func (c *Controller) ReplaceContent(fragment string) {
	c.view.SetContent(fragment)

	if !c.visible {
		c.view.Open()
		c.visible = true
	}

	if title := markup.ExtractTitle(fragment); title != "" {
		c.view.SetTitle(title)
	}

	for _, fn := range c.openCallbacks {
		fn()
	}
}

// Close starts the modal close transition. The view fires the closed
// notification once the transition completes.
func (c *Controller) Close() {
	c.view.Close()
}

// handleClosed consumes the view's closed-state notification: state resets,
// close callbacks drain in LIFO order, and the content region returns to the
// loading placeholder.
func (c *Controller) handleClosed() {
	c.visible = false
	c.originURL = ""
	c.originParams = nil
	c.lastURL = ""
	c.lastParams = nil

	// Pop before invoking so a failing callback can neither re-run nor stop
	// the drain.
	for len(c.closeCallbacks) > 0 {
		last := len(c.closeCallbacks) - 1
		fn := c.closeCallbacks[last]
		c.closeCallbacks = c.closeCallbacks[:last]
		c.runCloseCallback(fn)
	}

	if c.active != nil {
		c.active.Cancel()
		c.active = nil
	}

	c.bindings = nil
	c.view.SetContent(markup.LoadingPlaceholder(c.translate.Translate("loading")))
	c.view.SetTitle("")
}

func (c *Controller) runCloseCallback(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("close callback panicked")
		}
	}()
	fn()
}

// Confirm shows a dismissible info alert in the content region.
func (c *Controller) Confirm(message string) {
	c.showAlert(message, markup.KindInfo)
}

// Success shows a dismissible success alert in the content region.
func (c *Controller) Success(message string) {
	c.showAlert(message, markup.KindSuccess)
}

func (c *Controller) showAlert(message, kind string) {
	c.ReplaceContent(markup.AlertBlock(kind, message, c.translate.Translate("close")))
}

// DisplayError surfaces an error message as an inline alert. An existing
// same-kind alert is removed first; if nothing else remains the alert
// replaces the content outright, otherwise it is prepended above it. Any
// loading spinner is cleared and an active CAPTCHA widget is asked to
// reload.
func (c *Controller) DisplayError(message, kind string) {
	if kind == "" {
		kind = markup.KindDanger
	}

	content := markup.RemoveAlert(c.view.Content(), kind)

	if markup.IsPlaceholder(content) {
		c.ReplaceContent(markup.AlertBlock(kind, message, c.translate.Translate("close")))
	} else {
		c.ReplaceContent(markup.RemoveSpinner(markup.Alert(kind, message) + "\n" + content))
	}

	if c.captcha != nil {
		c.captcha.Reload()
	}
}

// CheckForError scans a response fragment for an alert marker of the given
// kind. A hit routes the extracted message to DisplayError and skips the
// continuation; otherwise the full fragment is forwarded unchanged.
func (c *Controller) CheckForError(fragment string, next SuccessFunc, kind string) {
	if kind == "" {
		kind = markup.KindDanger
	}

	if msg, ok := markup.FindAlert(fragment, kind); ok {
		c.DisplayError(msg, kind)
		return
	}

	next(fragment)
}

// displayFailure is the transport failure continuation. Status 0 is a
// cancelled or superseded request and displays nothing; an HTTP 200 carries
// the server's structured error envelope (or, failing that, a raw body);
// anything else shows status text and code.
func (c *Controller) displayFailure(status int, statusText, body string) {
	switch {
	case status == 0:
		// Expected outcome of superseding a request.
	case status == http.StatusOK:
		if msg, ok := ajax.ErrorMessage(body); ok {
			c.DisplayError(msg, markup.KindDanger)
		} else {
			c.DisplayError(body, markup.KindDanger)
		}
	default:
		c.DisplayError(fmt.Sprintf("%s (%d)", statusText, status), markup.KindDanger)
	}
}

// registerForms is the built-in open callback: it scrapes the forms in the
// current content and resolves each one's handler kind once, by name. Full
// overrides win over result callbacks; everything else gets the default
// close-on-no-error behavior.
func (c *Controller) registerForms() {
	c.bindings = c.bindings[:0]

	forms, err := markup.ParseForms(c.view.Content())
	if err != nil {
		c.log.Warn().Err(err).Msg("form scrape failed")
		return
	}

	for _, f := range forms {
		b := binding{form: f, kind: bindDefault}
		if h, ok := c.formHandlers[f.Name]; ok {
			b.kind = bindOverride
			b.override = h
		} else if cb, ok := c.formResultCallbacks[f.Name]; ok {
			b.kind = bindResult
			b.result = cb
		}
		c.bindings = append(c.bindings, b)
	}
}

// Forms returns the forms bound in the current content region.
func (c *Controller) Forms() []*markup.Form {
	forms := make([]*markup.Form, len(c.bindings))
	for i := range c.bindings {
		forms[i] = c.bindings[i].form
	}
	return forms
}

// Submit runs the bound submission behavior for a form. handled marks the
// triggering event as already consumed by another listener: wrapped
// submissions then skip and just clear any loading indicator. Returns false
// when default navigation should be suppressed, which is every path here.
func (c *Controller) Submit(f *markup.Form, handled bool) bool {
	b := c.bindingFor(f)
	if b == nil {
		return c.SubmitForm(f, nil)
	}

	switch b.kind {
	case bindOverride:
		if !b.override(f) {
			return false
		}
		return c.SubmitForm(f, nil)
	case bindResult:
		if handled {
			c.clearSpinner()
			return false
		}
		return c.SubmitForm(f, b.result)
	default:
		if handled {
			c.clearSpinner()
			return false
		}
		return c.SubmitForm(f, func(body string) {
			c.CheckForError(body, func(string) { c.Close() }, markup.KindDanger)
		})
	}
}

func (c *Controller) bindingFor(f *markup.Form) *binding {
	for i := range c.bindings {
		if c.bindings[i].form == f || (f.Name != "" && c.bindings[i].form.Name == f.Name) {
			return &c.bindings[i]
		}
	}
	return nil
}

func (c *Controller) clearSpinner() {
	c.view.SetContent(markup.RemoveSpinner(c.view.Content()))
}

// SubmitForm serializes the form and resubmits it over AJAX. A form with an
// explicit action is routed through its submodule/action segments; POST
// sends the serialized data as the body, anything else sends it as the query
// instead. A form without an action resubmits to the last URL loaded in the
// modal, emulating "submit to current page". The default result handler
// closes the modal.
func (c *Controller) SubmitForm(f *markup.Form, onResult ResultCallback) bool {
	if onResult == nil {
		onResult = func(string) { c.Close() }
	}

	vals := f.Serialize().Encode()
	isPost := strings.EqualFold(f.Method, http.MethodPost)

	c.view.SetContent(markup.LoadingPlaceholder(c.translate.Translate("loading")))

	if f.Action != "" {
		route, query, err := ajax.ParseAction(f.Action)
		if err != nil {
			c.DisplayError(err.Error(), markup.KindDanger)
			return false
		}
		if isPost {
			return c.Open(route, query, vals, SuccessFunc(onResult))
		}
		return c.Open(route, vals, nil, SuccessFunc(onResult))
	}

	if isPost {
		return c.OpenByURL(c.lastURL, vals, SuccessFunc(onResult))
	}
	return c.OpenByURL(c.lastURL, url.Values{}, SuccessFunc(onResult))
}
