package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authsession/pkg/cookie"
)

// CookieTransport implements Transport using a named cookie
type CookieTransport struct {
	cookieMgr  *cookie.Manager
	cookieName string
	options    []cookie.Option
}

// NewCookieTransport creates a new cookie-based transport. Options are applied
// on top of the cookie manager defaults for every Attach and Detach, so the
// deletion directive targets the cookie that was written.
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, opts ...cookie.Option) *CookieTransport {
	if cookieMgr == nil {
		cookieMgr = cookie.New()
	}
	return &CookieTransport{
		cookieMgr:  cookieMgr,
		cookieName: cookieName,
		options:    opts,
	}
}

// Name returns the cookie name used by the transport.
func (t *CookieTransport) Name() string {
	return t.cookieName
}

// Extract reads the session identifier from the cookie
func (t *CookieTransport) Extract(r *http.Request) (string, bool) {
	value, err := t.cookieMgr.Get(r, t.cookieName)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Attach stores the session identifier in a cookie
func (t *CookieTransport) Attach(w http.ResponseWriter, id uuid.UUID) {
	t.cookieMgr.Set(w, t.cookieName, id.String(), t.options...)
}

// Detach issues a deletion directive for the session cookie
func (t *CookieTransport) Detach(w http.ResponseWriter) {
	t.cookieMgr.Delete(w, t.cookieName, t.options...)
}

// cookieOptionsFromConfig maps session config onto cookie attributes.
func cookieOptionsFromConfig(cfg Config) []cookie.Option {
	return []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithMaxAge(int(cfg.CookieMaxAge / time.Second)),
		cookie.WithSecure(cfg.CookieSecure),
		cookie.WithHTTPOnly(cfg.CookieHTTPOnly),
		cookie.WithSameSite(cfg.sameSite()),
	}
}
