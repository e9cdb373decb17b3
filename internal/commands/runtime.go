package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alastify/vufind/internal/core/config"
	"github.com/alastify/vufind/internal/core/lightbox"
	"github.com/alastify/vufind/internal/core/session"
	"github.com/alastify/vufind/internal/i18n"
	"github.com/alastify/vufind/internal/store/jsonfile"
)

// runtime bundles the pieces shared by commands that talk to a catalog
// server: the parsed base URL, a cookie jar seeded from the persisted
// session, and the translator.
type runtime struct {
	cfg       *config.Config
	base      *url.URL
	jar       *cookiejar.Jar
	sessions  session.Store
	translate *i18n.Translator
	log       zerolog.Logger
}

// newRuntime builds the shared command runtime from loaded config.
func newRuntime(ctx context.Context, flags *Flags, log zerolog.Logger) (*runtime, error) {
	cfg := flags.Config
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	baseURL := cfg.Server.BaseURL
	if flags.BaseURL != "" {
		baseURL = flags.BaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	sessions := jsonfile.New(cfg.CookiesFile())
	if s, err := sessions.Get(ctx, base.Host); err == nil {
		session.Restore(jar, base, s)
		log.Debug().Str("host", base.Host).Int("cookies", len(s.Cookies)).Msg("restored session")
	} else if !errors.Is(err, session.ErrNotFound) {
		log.Warn().Err(err).Msg("failed to load session")
	}

	translate := i18n.New(cfg.Language)
	if err := translate.LoadOverrides(cfg.TranslationsFile()); err != nil {
		log.Warn().Err(err).Msg("failed to load translation overrides")
	}

	return &runtime{
		cfg:       cfg,
		base:      base,
		jar:       jar,
		sessions:  sessions,
		translate: translate,
		log:       log,
	}, nil
}

// saveSession captures the cookie jar back into the session store so
// logins survive between runs.
func (r *runtime) saveSession(ctx context.Context) error {
	s := session.Capture(r.jar, r.base, time.Now())
	if s.Empty() {
		return nil
	}
	return r.sessions.Save(ctx, s)
}

// cliView is a headless modal surface for one-shot commands. Closing
// completes synchronously since there is no render loop to wait on.
type cliView struct {
	visible   bool
	content   string
	title     string
	closedFns []func()
}

func (v *cliView) Open()                    { v.visible = true }
func (v *cliView) Content() string          { return v.content }
func (v *cliView) SetContent(s string)      { v.content = s }
func (v *cliView) SetTitle(s string)        { v.title = s }
func (v *cliView) NotifyOnClosed(fn func()) { v.closedFns = append(v.closedFns, fn) }

func (v *cliView) Close() {
	if !v.visible {
		return
	}
	v.visible = false
	for _, fn := range v.closedFns {
		fn()
	}
}

var _ lightbox.View = (*cliView)(nil)

// serverHeaders copies the configured extra headers for every request.
func serverHeaders(cfg *config.Config) map[string]string {
	headers := make(map[string]string, len(cfg.Server.Headers))
	for k, v := range cfg.Server.Headers {
		headers[k] = v
	}
	return headers
}
