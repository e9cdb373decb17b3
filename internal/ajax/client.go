package ajax

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alastify/vufind/pkg/randid"
)

// Handle is an in-flight request. Cancelling a settled request is a no-op.
type Handle interface {
	Cancel()
}

// SuccessFunc receives the raw response body of a completed request.
type SuccessFunc func(body string)

// FailureFunc receives the failure outcome of a request. A status of exactly
// 0 means the request was cancelled or never reached the server.
type FailureFunc func(status int, statusText, body string)

// Transport issues cancellable requests. Exactly one of the two callbacks
// runs when a request settles, delivered through the client's dispatch
// function so callers stay on their own event loop.
type Transport interface {
	Do(verb, rawURL string, body url.Values, onSuccess SuccessFunc, onFailure FailureFunc) Handle
}

// Options configures a Client.
type Options struct {
	// Dispatch delivers completion callbacks. Nil runs them inline on the
	// request goroutine.
	Dispatch func(func())
	// Jar holds server session cookies (optional).
	Jar http.CookieJar
	// Headers are added to every request.
	Headers map[string]string
	// Logger for request tracing.
	Logger zerolog.Logger
}

// Client is the HTTP transport behind the lightbox. There is no client-side
// timeout; cancellation is the only termination-before-completion mechanism.
type Client struct {
	http     *http.Client
	dispatch func(func())
	headers  map[string]string
	log      zerolog.Logger
}

// NewClient creates a transport client.
func NewClient(opts Options) *Client {
	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}

	return &Client{
		http:     &http.Client{Jar: opts.Jar},
		dispatch: dispatch,
		headers:  opts.Headers,
		log:      opts.Logger,
	}
}

type requestHandle struct {
	cancel context.CancelFunc
}

func (h *requestHandle) Cancel() { h.cancel() }

// Do starts a request and returns immediately with a cancellation handle.
// POST bodies are form-encoded; other verbs send no body.
func (c *Client) Do(verb, rawURL string, body url.Values, onSuccess SuccessFunc, onFailure FailureFunc) Handle {
	ctx, cancel := context.WithCancel(context.Background())
	id := randid.Generate(8)

	log := c.log.With().Str("request_id", id).Str("verb", verb).Str("url", rawURL).Logger()
	log.Debug().Msg("request started")

	go func() {
		status, statusText, respBody, err := c.roundTrip(ctx, verb, rawURL, body)
		switch {
		case err != nil && errors.Is(ctx.Err(), context.Canceled):
			log.Debug().Msg("request cancelled")
			c.dispatch(func() { onFailure(0, "", "") })
		case err != nil:
			log.Error().Err(err).Msg("request failed")
			c.dispatch(func() { onFailure(0, err.Error(), "") })
		case status != http.StatusOK:
			log.Warn().Int("status", status).Msg("request rejected")
			c.dispatch(func() { onFailure(status, statusText, respBody) })
		case isJSON(respBody):
			// The lightbox endpoint returns HTML on success; a JSON body with
			// HTTP 200 is the server's structured error envelope.
			log.Debug().Msg("structured error response")
			c.dispatch(func() { onFailure(status, statusText, respBody) })
		default:
			log.Debug().Int("bytes", len(respBody)).Msg("request completed")
			c.dispatch(func() { onSuccess(respBody) })
		}
	}()

	return &requestHandle{cancel: cancel}
}

func (c *Client) roundTrip(ctx context.Context, verb, rawURL string, body url.Values) (int, string, string, error) {
	var reader io.Reader
	if verb == http.MethodPost {
		reader = strings.NewReader(body.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, verb, rawURL, reader)
	if err != nil {
		return 0, "", "", err
	}

	if verb == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	for key, val := range c.headers {
		req.Header.Set(key, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", "", err
	}

	return resp.StatusCode, http.StatusText(resp.StatusCode), string(data), nil
}

// isJSON reports whether a body looks like the server's JSON envelope rather
// than an HTML fragment.
func isJSON(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
