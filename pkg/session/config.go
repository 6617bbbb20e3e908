package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/authsession/pkg/cookie"
)

// Transport kinds accepted by Config.Transport
const (
	TransportCookie = "cookie"
	TransportHeader = "header"
)

// Config holds session configuration
type Config struct {
	// Validity is how far each successful resolution pushes ValidTill
	Validity time.Duration `env:"SESSION_VALIDITY" envDefault:"24h"`

	// CookieName is the cookie name prefix; the suffix is appended as <name>_<suffix>
	CookieName     string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	CookieMaxAge   time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"24h"`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	CookieHTTPOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	// CookieSameSite is one of lax, strict, none or default
	CookieSameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax"`

	// Transport selects the store binding: cookie or header
	Transport string `env:"SESSION_TRANSPORT" envDefault:"cookie"`

	// Suffix distinguishes session domains sharing one deployment (user, admin)
	Suffix string `env:"SESSION_SUFFIX" envDefault:"user"`

	// CleanupInterval for purging expired records from the memory store (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Validity:        24 * time.Hour,
		CookieName:      "sid",
		CookieMaxAge:    24 * time.Hour,
		CookieSecure:    true,
		CookieHTTPOnly:  true,
		CookieSameSite:  "lax",
		Transport:       TransportCookie,
		Suffix:          "user",
		CleanupInterval: 5 * time.Minute,
	}
}

// CookieFullName returns the cookie name for the configured session domain.
func (c Config) CookieFullName() string {
	if c.Suffix == "" {
		return c.CookieName
	}
	return c.CookieName + "_" + c.Suffix
}

func (c Config) sameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "default":
		return http.SameSiteDefaultMode
	default:
		return http.SameSiteLaxMode
	}
}

// NewTransport builds the store binding chosen by cfg.Transport.
// cookieMgr may be nil, in which case a manager with package defaults is used.
func NewTransport(cfg Config, cookieMgr *cookie.Manager) (Transport, error) {
	switch strings.ToLower(cfg.Transport) {
	case "", TransportCookie:
		return NewCookieTransport(cookieMgr, cfg.CookieFullName(), cookieOptionsFromConfig(cfg)...), nil
	case TransportHeader:
		return NewSuffixHeaderTransport(cfg.Suffix), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrNoTransport, cfg.Transport)
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// The transport is derived from the config; extra options are applied last.
func NewFromConfig[C any](cfg Config, store Store[C], cookieMgr *cookie.Manager, opts ...Option) (*Manager[C], error) {
	transport, err := NewTransport(cfg, cookieMgr)
	if err != nil {
		return nil, err
	}

	configOpts := []Option{
		WithValidity(cfg.Validity),
	}
	configOpts = append(configOpts, opts...)

	return NewManager(store, transport, configOpts...), nil
}
